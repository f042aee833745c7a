/*
Package servicekit turns a machine-readable API contract into every client
and server surface a service needs: a command-line namespace, an interactive
shell, an HTTP router and an MCP tool set, all projected from the same
contract so they can never disagree about the API's shape.

# Concept

The contract (an OpenAPI document) is the single source of truth. On the
client side it is fetched from a running service and compiled into a command
tree: every (path, method) pair becomes a dotted command such as
"users.list.get" whose flags mirror the operation's parameters. On the server
side the same contract is assembled from registered entry points and projected
onto REST and MCP transports.

# Layout

  - pkg/contract:  the contract model and its OpenAPI loader/serializer
  - pkg/command:   command tree construction and argument binding
  - pkg/client:    the HTTP request executor
  - pkg/registry:  operation-id to entry-point dispatch
  - pkg/adapters:  the REST and MCP protocol projections
  - cmd/forge:     the CLI binding it all together

# Usage

Register entry points, freeze the registry, and hand the derived contract to
whichever projection the process should speak:

	reg := registry.New()
	reg.MustRegister(def, handler)
	reg.Freeze()

	c, err := reg.Contract("my service", servicekit.Version)
	if err != nil {
		log.Fatal(err)
	}
	http.ListenAndServe(":8080", resthttp.NewHandler(c, reg))
*/
package servicekit

// Version is the released version of the toolkit.
var Version = "0.1.0"
