// Package mapping turns Go document structs into field tables the search
// layer can serialize and parse against, and resolves the document-type
// descriptors that appear in core configuration.
//
// # Core Features
//
//   - Struct-tag driven field mapping (`search:"name"`, `search:"id,key"`)
//   - Memoizing Manager: one reflection pass per type, LRU-cached
//   - Explicit descriptor Registry: "shop.product" -> Product, populated
//     at startup instead of resolved by reflection at runtime
//   - Validation rules applied at registration (required string key,
//     unique field names), extensible via the Rule interface
//
// # Basic Usage
//
//	type Product struct {
//	    ID    string  `search:"id,key"`
//	    Name  string  `search:"name"`
//	    Price float64 `search:"price"`
//	}
//
//	manager, _ := mapping.NewManager(0)
//	registry := mapping.NewRegistry(manager)
//	if err := mapping.Register[Product](registry, "shop.product"); err != nil {
//	    log.Fatal(err)
//	}
//
//	m, _ := registry.Resolve("shop.product")
//	key, _ := m.Key() // Field{Name: "id", GoName: "ID", Key: true}
//
// # Package Layout
//
//	mapping/
//	├── mapping.go   // Field/Mapping types, tag parsing
//	├── manager.go   // memoizing mapping manager
//	├── registry.go  // descriptor -> type registry
//	├── rules.go     // mapping validation rules
//	└── errors.go    // sentinel errors
package mapping
