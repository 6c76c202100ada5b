package codegen

import (
	"github.com/chazu/yailc/pkg/ir"
)

// Dispatch is the call primitive chosen for a method block.
type Dispatch int

const (
	DispatchAsyncInstance Dispatch = iota
	DispatchBlockingInstance
	DispatchAsyncGeneric
	DispatchBlockingGeneric
	DispatchAPIInvoke
)

var dispatchNames = [...]string{
	DispatchAsyncInstance:    "async-instance",
	DispatchBlockingInstance: "blocking-instance",
	DispatchAsyncGeneric:     "async-generic",
	DispatchBlockingGeneric:  "blocking-generic",
	DispatchAPIInvoke:        "api-invoke",
}

func (d Dispatch) String() string {
	if d < 0 || int(d) >= len(dispatchNames) {
		return "unknown"
	}
	return dispatchNames[d]
}

// selectDispatch picks the primitive once. API components always go
// through invokeAPI regardless of the signature's continuation flag.
func selectDispatch(api, continuation, generic bool) Dispatch {
	switch {
	case api:
		return DispatchAPIInvoke
	case generic && continuation:
		return DispatchBlockingGeneric
	case generic:
		return DispatchAsyncGeneric
	case continuation:
		return DispatchBlockingInstance
	default:
		return DispatchAsyncInstance
	}
}

// head returns the form head for d. invokeAPI is never blocking; its
// generic variant still addresses the component by runtime type.
func (d Dispatch) head(generic bool) ir.Symbol {
	switch d {
	case DispatchAsyncInstance:
		return ir.CallComponentMethod
	case DispatchBlockingInstance:
		return ir.CallComponentMethodBlocking
	case DispatchAsyncGeneric:
		return ir.CallComponentTypeMethod
	case DispatchBlockingGeneric:
		return ir.CallComponentTypeMethodBlocking
	case DispatchAPIInvoke:
		if generic {
			return ir.CallComponentTypeMethod
		}
		return ir.CallComponentMethod
	}
	panic("codegen: unknown dispatch " + d.String())
}

// timeUnitMethods are the Clock methods whose emitted name follows the
// block's TIME_UNIT dropdown.
var timeUnitMethods = map[string]bool{
	"AddYears":   true,
	"AddMonths":  true,
	"AddWeeks":   true,
	"AddDays":    true,
	"AddHours":   true,
	"AddMinutes": true,
	"AddSeconds": true,
}

const timeUnitPrefix = "Add"

// emittedMethodName applies the time-unit rewrite.
func emittedMethodName(method, unit string) string {
	if unit == "" || !timeUnitMethods[method] {
		return method
	}
	return timeUnitPrefix + unit
}
