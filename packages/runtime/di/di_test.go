package di_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngr-go/packages/runtime/di"
)

func simpleDef(token di.Token, deps ...di.Dep) *di.DirectiveDef {
	return &di.DirectiveDef{
		Token: token,
		Deps:  deps,
		Factory: func(resolved []interface{}) interface{} {
			return string(token) + "-instance"
		},
	}
}

func TestNodeInjectorLookup(t *testing.T) {
	t.Run("should resolve a token registered on the node itself", func(t *testing.T) {
		inj := di.NewNodeInjector(nil, false)
		inj.Provide("Config", 42)

		value, err := inj.Get("Config", di.Default)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if value != 42 {
			t.Errorf("Expected 42, got %v", value)
		}
	})

	t.Run("should walk the parent chain for tokens not on the node", func(t *testing.T) {
		root := di.NewNodeInjector(nil, false)
		root.Provide("Config", "root-config")
		child := di.NewNodeInjector(root, false)

		value, err := child.Get("Config", di.Default)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if value != "root-config" {
			t.Errorf("Expected root-config, got %v", value)
		}
	})

	t.Run("should stop at the node with the Self flag", func(t *testing.T) {
		root := di.NewNodeInjector(nil, false)
		root.Provide("Config", "root-config")
		child := di.NewNodeInjector(root, false)

		_, err := child.Get("Config", di.Self)
		var notFound *di.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("should start at the parent with the SkipSelf flag", func(t *testing.T) {
		root := di.NewNodeInjector(nil, false)
		root.Provide("Config", "root-config")
		child := di.NewNodeInjector(root, false)
		child.Provide("Config", "child-config")

		value, err := child.Get("Config", di.SkipSelf)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if value != "root-config" {
			t.Errorf("Expected the parent's value, got %v", value)
		}
	})

	t.Run("should not walk past a host boundary with the Host flag", func(t *testing.T) {
		beyond := di.NewNodeInjector(nil, false)
		beyond.Provide("Config", "outside")
		host := di.NewNodeInjector(beyond, true)
		inner := di.NewNodeInjector(host, false)

		if _, err := inner.Get("Config", di.Host); err == nil {
			t.Errorf("Expected the host boundary to stop the walk")
		}

		host.Provide("Config", "at-host")
		value, err := inner.Get("Config", di.Host)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if value != "at-host" {
			t.Errorf("Expected the host's value, got %v", value)
		}
	})

	t.Run("should convert NOT_FOUND into nil with the Optional flag", func(t *testing.T) {
		inj := di.NewNodeInjector(nil, false)
		value, err := inj.Get("Missing", di.Optional)
		if err != nil {
			t.Fatalf("Expected nil error, got %v", err)
		}
		if value != nil {
			t.Errorf("Expected nil value, got %v", value)
		}
	})

	t.Run("should fall back to the external resolver only without Self or Host", func(t *testing.T) {
		inj := di.NewNodeInjector(nil, false)
		inj.SetResolver(di.ResolverFunc(func(token di.Token) (interface{}, bool) {
			if token == "External" {
				return "from-app", true
			}
			return nil, false
		}))

		value, err := inj.Get("External", di.Default)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if value != "from-app" {
			t.Errorf("Expected the resolver's value, got %v", value)
		}

		if _, err := inj.Get("External", di.Self); err == nil {
			t.Errorf("Expected Self to bypass the resolver")
		}
		if _, err := inj.Get("External", di.Host); err == nil {
			t.Errorf("Expected Host to bypass the resolver")
		}
	})

	t.Run("should report NOT_FOUND with the token name", func(t *testing.T) {
		inj := di.NewNodeInjector(nil, false)
		_, err := inj.Get("Nope", di.Default)
		if err == nil || err.Error() != "injector: no provider for Nope" {
			t.Errorf("Unexpected error: %v", err)
		}
	})
}

func TestDirectiveConstruction(t *testing.T) {
	t.Run("should construct directives in dependency order", func(t *testing.T) {
		inj := di.NewNodeInjector(nil, false)
		// B registers before A but depends on it, so A must construct first.
		inj.Register(simpleDef("B", di.Dep{Token: "A"}))
		inj.Register(simpleDef("A"))

		if err := inj.CreateDirectives(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := []di.Token{"A", "B"}
		if diff := cmp.Diff(want, inj.ConstructionOrder()); diff != "" {
			t.Errorf("Construction order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should construct each directive exactly once", func(t *testing.T) {
		constructed := 0
		inj := di.NewNodeInjector(nil, false)
		inj.Register(&di.DirectiveDef{
			Token: "Shared",
			Factory: func([]interface{}) interface{} {
				constructed++
				return "shared"
			},
		})
		inj.Register(simpleDef("X", di.Dep{Token: "Shared"}))
		inj.Register(simpleDef("Y", di.Dep{Token: "Shared"}))

		if err := inj.CreateDirectives(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if constructed != 1 {
			t.Errorf("Expected one construction, got %d", constructed)
		}
	})

	t.Run("should pass resolved dependencies to the factory in declaration order", func(t *testing.T) {
		var got []interface{}
		inj := di.NewNodeInjector(nil, false)
		inj.Provide("One", 1)
		inj.Provide("Two", 2)
		inj.Register(&di.DirectiveDef{
			Token: "Collector",
			Deps:  []di.Dep{{Token: "One"}, {Token: "Two"}},
			Factory: func(deps []interface{}) interface{} {
				got = append([]interface{}{}, deps...)
				return "collector"
			},
		})

		if err := inj.CreateDirectives(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff([]interface{}{1, 2}, got); diff != "" {
			t.Errorf("Dependency order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should fail on circular dependencies naming the chain", func(t *testing.T) {
		inj := di.NewNodeInjector(nil, false)
		inj.Register(simpleDef("A", di.Dep{Token: "B"}))
		inj.Register(simpleDef("B", di.Dep{Token: "A"}))

		err := inj.CreateDirectives()
		var circular *di.CircularDepError
		if !errors.As(err, &circular) {
			t.Fatalf("Expected CircularDepError, got %v", err)
		}
		if diff := cmp.Diff([]di.Token{"A", "B", "A"}, circular.Chain); diff != "" {
			t.Errorf("Cycle chain mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should allow optional missing dependencies", func(t *testing.T) {
		inj := di.NewNodeInjector(nil, false)
		inj.Register(&di.DirectiveDef{
			Token: "Tolerant",
			Deps:  []di.Dep{{Token: "Missing", Flags: di.Optional}},
			Factory: func(deps []interface{}) interface{} {
				if deps[0] != nil {
					t.Errorf("Expected nil optional dependency, got %v", deps[0])
				}
				return "tolerant"
			},
		})
		if err := inj.CreateDirectives(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	})
}
