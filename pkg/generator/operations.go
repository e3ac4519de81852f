package generator

import (
	"sort"

	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"
)

const jsonMediaType = "application/json"

// bodyArgumentName is the argument name used for request bodies
const bodyArgumentName = "body"

// OperationOptions tunes how strictly operations are resolved
type OperationOptions struct {
	// DropReferencedParameters skips referenced parameters with a warning
	// instead of failing
	DropReferencedParameters bool
}

// ResolveFunction resolves one operation into a Function.
//
// item may be nil; when set, its parameters are merged under the operation's own.
// inherited is the document-level security requirement, used when the operation
// does not declare one. subject names the operation in diagnostics and errors.
func ResolveFunction(item *openapi3.PathItem, op *openapi3.Operation, inherited openapi3.SecurityRequirements, subject string, opts OperationOptions, diags *diag.Collector) (ir.Function, error) {
	fn := ir.Function{
		Docs:      op.Description,
		Responses: map[string]ir.Type{},
	}

	if op.RequestBody != nil {
		arg, err := resolveRequestBody(op.RequestBody)
		if err != nil {
			return ir.Function{}, err
		}
		fn.Arguments = append(fn.Arguments, arg)
	}

	var pathParams openapi3.Parameters
	if item != nil {
		pathParams = item.Parameters
	}
	for _, pr := range mergeParameters(pathParams, op.Parameters) {
		arg, ok, err := resolveParameter(pr, subject, opts, diags)
		if err != nil {
			return ir.Function{}, err
		}
		if ok {
			fn.Arguments = append(fn.Arguments, arg)
		}
	}

	if op.Responses != nil {
		responses := op.Responses.Map()
		codes := make([]string, 0, len(responses))
		for code := range responses {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			t, ok, err := resolveResponse(responses[code])
			if err != nil {
				return ir.Function{}, errors.WithMessagef(err, "response %s", code)
			}
			if !ok {
				diags.Warnf(diag.SkippedResponse, subject, "response %s has no %s content", code, jsonMediaType)
				continue
			}
			fn.Responses[code] = t
		}
	}

	reqs := inherited
	if op.Security != nil {
		reqs = *op.Security
	}
	fn.SecuritySchemes = securityNames(reqs)

	return fn, nil
}

// mergeParameters returns the path-level parameters with operation parameters
// replacing those of the same name and location, followed by the remaining
// operation parameters.
func mergeParameters(pathParams, opParams openapi3.Parameters) openapi3.Parameters {
	type key struct{ name, in string }
	keyOf := func(pr *openapi3.ParameterRef) (key, bool) {
		if pr == nil || pr.Ref != "" || pr.Value == nil {
			return key{}, false
		}
		return key{pr.Value.Name, pr.Value.In}, true
	}

	overrides := map[key]*openapi3.ParameterRef{}
	for _, pr := range opParams {
		if k, ok := keyOf(pr); ok {
			overrides[k] = pr
		}
	}

	merged := make(openapi3.Parameters, 0, len(pathParams)+len(opParams))
	used := map[*openapi3.ParameterRef]bool{}
	for _, pr := range pathParams {
		if k, ok := keyOf(pr); ok {
			if o, found := overrides[k]; found {
				merged = append(merged, o)
				used[o] = true
				continue
			}
		}
		merged = append(merged, pr)
	}
	for _, pr := range opParams {
		if !used[pr] {
			merged = append(merged, pr)
		}
	}
	return merged
}

func resolveParameter(pr *openapi3.ParameterRef, subject string, opts OperationOptions, diags *diag.Collector) (ir.Argument, bool, error) {
	if pr == nil {
		return ir.Argument{}, false, nil
	}
	if pr.Ref != "" {
		if !opts.DropReferencedParameters {
			return ir.Argument{}, false, ir.Unimplementedf("referenced parameter %s", pr.Ref)
		}
		diags.Warnf(diag.SkippedParameter, subject, "referenced parameter %s dropped", pr.Ref)
		return ir.Argument{}, false, nil
	}
	p := pr.Value
	if p == nil {
		return ir.Argument{}, false, nil
	}
	if p.Schema == nil {
		diags.Warnf(diag.SkippedParameter, subject, "parameter %q has no schema", p.Name)
		return ir.Argument{}, false, nil
	}

	t, err := ResolveType(p.Schema)
	if err != nil {
		return ir.Argument{}, false, errors.WithMessagef(err, "parameter %q", p.Name)
	}

	var loc ir.Location
	switch p.In {
	case openapi3.ParameterInPath:
		loc = ir.LocationPath
	case openapi3.ParameterInQuery:
		loc = ir.LocationQuery
	default:
		loc = ir.LocationUnimplemented
		diags.Warnf(diag.UnimplementedLocation, subject, "%s parameter %q is not sent", p.In, p.Name)
	}

	// path parameters are always required, even when nullable
	switch {
	case loc == ir.LocationPath:
		t = t.Unwrap()
	case !p.Required:
		t = ir.Optional(t)
	}
	return ir.Argument{Name: p.Name, Type: t, Location: loc}, true, nil
}

func resolveRequestBody(rb *openapi3.RequestBodyRef) (ir.Argument, error) {
	if rb.Ref != "" {
		return ir.Argument{}, ir.Unimplementedf("referenced request body %s", rb.Ref)
	}
	if rb.Value == nil {
		return ir.Argument{}, ir.Unimplementedf("empty request body")
	}
	media, ok := rb.Value.Content[jsonMediaType]
	if !ok || media == nil {
		return ir.Argument{}, ir.Unimplementedf("request body without %s content", jsonMediaType)
	}
	t := ir.Scalar(ir.KindAny)
	if media.Schema != nil {
		var err error
		if t, err = ResolveType(media.Schema); err != nil {
			return ir.Argument{}, errors.WithMessage(err, "request body")
		}
	}
	if !rb.Value.Required {
		t = ir.Optional(t)
	}
	return ir.Argument{Name: bodyArgumentName, Type: t, Location: ir.LocationBody}, nil
}

// resolveResponse returns false when the response has content but none of it is JSON
func resolveResponse(rr *openapi3.ResponseRef) (ir.Type, bool, error) {
	if rr == nil {
		return ir.Type{}, false, nil
	}
	if rr.Ref != "" {
		return ir.Type{}, false, ir.Unimplementedf("referenced response %s", rr.Ref)
	}
	if rr.Value == nil || len(rr.Value.Content) == 0 {
		return ir.Scalar(ir.KindNone), true, nil
	}
	media, ok := rr.Value.Content[jsonMediaType]
	if !ok || media == nil {
		return ir.Type{}, false, nil
	}
	if media.Schema == nil {
		return ir.Scalar(ir.KindAny), true, nil
	}
	t, err := ResolveType(media.Schema)
	if err != nil {
		return ir.Type{}, false, err
	}
	return t, true, nil
}

func securityNames(reqs openapi3.SecurityRequirements) []string {
	seen := map[string]struct{}{}
	for _, req := range reqs {
		for name := range req {
			seen[name] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
