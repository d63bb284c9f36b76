package cores_test

import (
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/searchfx/searchfx/v1/cores"
	"github.com/searchfx/searchfx/v1/mapping"
	"github.com/searchfx/searchfx/v1/search"
)

type fxDoc struct {
	ID   string `search:"id,key"`
	Name string `search:"name"`
}

func newFxTypes() (*mapping.Registry, error) {
	manager, err := mapping.NewManager(0)
	if err != nil {
		return nil, err
	}
	types := mapping.NewRegistry(manager)
	if err := mapping.Register[fxDoc](types, "test.doc"); err != nil {
		return nil, err
	}
	return types, nil
}

func fxConfig() cores.Config {
	return cores.Config{
		Servers: []cores.ServerConfig{
			{ID: "products", DocumentType: "test.doc", URL: "http://localhost:6334"},
			{ID: "reviews", DocumentType: "test.doc", URL: "http://localhost:7334"},
		},
	}
}

func TestInstanceName(t *testing.T) {
	if got := cores.InstanceName("products", cores.SuffixOperations); got != "products.operations" {
		t.Errorf("expected products.operations, got %q", got)
	}
	if got := cores.InstanceName("products", cores.SuffixBasic); got != "products.operations.basic" {
		t.Errorf("expected products.operations.basic, got %q", got)
	}
}

func TestModule_ResolvesNamedChains(t *testing.T) {
	var got struct {
		fx.In

		Registry *cores.Registry

		ProductsConn *search.Connection      `name:"products.connection"`
		ProductsExec *search.QueryExecutor   `name:"products.executor"`
		ProductsBase *search.BasicOperations `name:"products.operations.basic"`
		ProductsFull *search.FullOperations  `name:"products.operations"`
		ProductsOps  search.Operations       `name:"products.operations"`
		ProductsRead search.ReadOperations   `name:"products.operations"`
		ReviewsFull  *search.FullOperations  `name:"reviews.operations"`
		Parser       *search.DocumentParser
		Admin        *search.Admin
	}

	app := fxtest.New(t,
		fx.Provide(newFxTypes),
		cores.Module(fxConfig()),
		fx.Populate(&got),
	)
	app.RequireStart().RequireStop()

	if got.Registry == nil || got.Parser == nil || got.Admin == nil {
		t.Fatal("expected shared services to resolve")
	}
	if got.ProductsConn == nil || got.ProductsExec == nil || got.ProductsBase == nil || got.ProductsFull == nil {
		t.Fatal("expected every named chain node to resolve")
	}

	if got.ProductsConn.CoreID() != "products" {
		t.Errorf("expected products connection, got %q", got.ProductsConn.CoreID())
	}
	if got.ReviewsFull.Core() != "reviews" {
		t.Errorf("expected reviews operations, got %q", got.ReviewsFull.Core())
	}

	// All three bindings under products.operations are one instance.
	if got.ProductsOps.(*search.FullOperations) != got.ProductsFull {
		t.Error("Operations binding must alias the full operations instance")
	}
	if got.ProductsRead.(*search.FullOperations) != got.ProductsFull {
		t.Error("ReadOperations binding must alias the full operations instance")
	}
}

func TestModule_InvalidConfigFailsStartup(t *testing.T) {
	cfg := cores.Config{
		Servers: []cores.ServerConfig{
			{ID: "good", DocumentType: "test.doc", URL: "http://localhost:6334"},
			{ID: "bad", DocumentType: "test.doc"}, // no url
		},
	}

	app := fx.New(
		fx.NopLogger,
		fx.Provide(newFxTypes),
		cores.Module(cfg),
	)
	if err := app.Err(); err == nil {
		t.Fatal("expected the app to fail construction for an invalid batch")
	} else if !cores.IsConfigError(err) {
		t.Errorf("expected a ConfigError in the chain, got %v", err)
	}
}

func TestModule_UnknownDocumentTypeFailsStartup(t *testing.T) {
	cfg := cores.Config{
		Servers: []cores.ServerConfig{
			{ID: "c1", DocumentType: "test.unregistered", URL: "http://localhost:6334"},
		},
	}

	app := fx.New(
		fx.NopLogger,
		fx.Provide(newFxTypes),
		cores.Module(cfg),
	)
	if err := app.Err(); err == nil {
		t.Fatal("expected the app to fail construction for an unknown document type")
	}
}
