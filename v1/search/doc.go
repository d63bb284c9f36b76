// Package search is the client layer the core registry wires up: per-core
// connections, query execution, document operations, and the serializers
// and parsers shared by every core.
//
// The layering is strict and explicit. Each core owns a chain
//
//	Connection -> QueryExecutor -> BasicOperations -> FullOperations
//
// where every node holds a direct reference to its predecessor. Two cores
// never share a node, even when they index the same document type, so
// resolving one core's operations can never reach another core's
// connection.
//
// Core-independent services are shared singletons: FieldSerializer,
// QuerySerializer, FacetSerializer, ResponseParser, DocumentParser,
// SchemaParser, StatusParser, Admin, and the Cache (NullCache unless a
// real cache is opted into).
//
// # Basic Usage
//
//	conn, err := search.NewConnection(search.ConnectionConfig{
//	    CoreID: "products",
//	    URL:    "http://localhost:6334",
//	}, log)
//	if err != nil {
//	    return err
//	}
//
//	queries := search.NewQuerySerializer()
//	exec := search.NewQueryExecutor(conn, queries,
//	    search.NewFacetSerializer(queries), search.NewResponseParser())
//
//	basic := search.NewBasicOperations(conn, exec, productMapping,
//	    search.NewFieldSerializer(), search.NewResponseParser())
//	ops := search.NewFullOperations(basic,
//	    search.NewAdmin(search.NewSchemaParser(), search.NewStatusParser(), log),
//	    search.CoreSchema{VectorSize: 768})
//
//	if err := ops.EnsureStorage(ctx); err != nil {
//	    return err
//	}
//	err = ops.Add(ctx, Product{ID: "p-1", Name: "anvil"})
//
// Most applications do not build this chain by hand; the v1/cores package
// derives it from configuration, one chain per core.
//
// # Document Vectors
//
// A mapped field named "vector" ([]float32, tag `search:"vector"`) carries
// the document embedding. Documents without one are stored with no vector
// and are reachable by Get, Count and Facet but not by similarity Query.
package search
