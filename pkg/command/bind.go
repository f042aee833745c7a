package command

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lvsoft/service-kit/pkg/contract"
)

// BoundRequest is a validated parameter set for one operation, ready to be
// turned into a network call.
type BoundRequest struct {
	Operation contract.Operation
	Path      map[string]string
	Query     url.Values
	Header    http.Header
	Body      []byte
	Warnings  []string
}

// ParseTokens splits raw invocation tokens into a flat flag set and
// positional arguments. Both "--name value" and "--name=value" forms are
// accepted; a trailing flag with no value is an error.
func ParseTokens(tokens []string) (flags map[string]string, positional []string, err error) {
	flags = make(map[string]string)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "--") {
			positional = append(positional, tok)
			continue
		}
		name := strings.TrimPrefix(tok, "--")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			flags[name[:eq]] = name[eq+1:]
			continue
		}
		if i+1 >= len(tokens) {
			return nil, nil, fmt.Errorf("flag --%s expects a value", name)
		}
		i++
		flags[name] = tokens[i]
	}
	return flags, positional, nil
}

// Bind validates a flat --name value set (plus an optional raw body payload)
// against the operation's parameter specs.
//
// Rules, in order: required parameters must be present; values must coerce to
// the declared primitive type; unconsumed flags whose location the contract
// leaves unconstrained are sent as query parameters, while flags the contract
// does constrain (a body that isn't declared) produce a non-fatal warning;
// a declared body parameter takes one raw payload verbatim.
func Bind(op contract.Operation, flags map[string]string, rawBody string) (*BoundRequest, error) {
	bound := &BoundRequest{
		Operation: op,
		Path:      make(map[string]string),
		Query:     url.Values{},
		Header:    http.Header{},
	}
	consumed := make(map[string]bool, len(flags))
	var errs ValidationErrors

	bodySpec, hasBody := op.BodyParam()

	for _, p := range op.Parameters {
		if p.In == contract.InBody {
			continue
		}
		value, supplied := flags[p.Name]
		if !supplied && p.Default != "" {
			value, supplied = p.Default, true
		}
		if !supplied {
			if p.Required {
				errs = append(errs, &ValidationError{Param: p.Name, Missing: true})
			}
			continue
		}
		consumed[p.Name] = true

		canonical, err := coerce(value, p.Type)
		if err != nil {
			errs = append(errs, &ValidationError{Param: p.Name, Expected: p.Type, Value: value})
			continue
		}

		switch p.In {
		case contract.InPath:
			bound.Path[p.Name] = canonical
		case contract.InHeader:
			bound.Header.Set(p.Name, canonical)
		default:
			bound.Query.Set(p.Name, canonical)
		}
	}

	// Body: the declared parameter accepts one raw payload, taken verbatim
	// from either --body or the positional argument. A --body flag already
	// consumed by an ordinary parameter named "body" stays where it bound.
	body := rawBody
	if v, ok := flags["body"]; ok && !consumed["body"] {
		consumed["body"] = true
		if hasBody {
			body = v
		} else {
			bound.Warnings = append(bound.Warnings, "unknown argument --body: operation declares no request body")
		}
	}
	if hasBody {
		if body == "" && bodySpec.Required {
			errs = append(errs, &ValidationError{Param: "body", Missing: true})
		}
		bound.Body = []byte(body)
	} else if rawBody != "" {
		bound.Warnings = append(bound.Warnings, "ignoring payload argument: operation declares no request body")
	}

	// Unconsumed flags have no declared location; the contract leaves them
	// unconstrained, so they travel as query parameters.
	for name, value := range flags {
		if consumed[name] || name == "body" {
			continue
		}
		bound.Query.Set(name, value)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return bound, nil
}

// coerce validates value against the declared primitive type and returns its
// canonical string form.
func coerce(value, typ string) (string, error) {
	switch typ {
	case "integer":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case "number":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case "boolean":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	default:
		return value, nil
	}
}
