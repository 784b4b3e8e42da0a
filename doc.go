// Package solrq is a Go client for Solr-style document search servers.
//
// Queries are translated into the server's ordered request parameters by a
// fixed pipeline of encoders (paging, sort, field list, facets,
// highlighting, filter queries) and the response is decoded into a typed
// result set.
//
// # Low-level API
//
//	client, _ := solrq.New(ctx, solrq.WithURLs("http://localhost:8983/solr"), solrq.WithCore("techproducts"))
//	idx, _ := solrq.NewIndex[Product](client)
//	res, _ := idx.Query(ctx, solrq.NewQuery("name:ipod"), &solrq.QueryOptions{
//	    Rows:         solrq.Int(10),
//	    OrderBy:      []solrq.SortOrder{solrq.Sort("price", solrq.Desc)},
//	    FacetQueries: []solrq.FacetQuery{solrq.FacetField("cat")},
//	})
//
// # Fluent API
//
//	res, _ := idx.Search().
//	    Query(solrq.NewQuery("name:ipod")).
//	    Filter(solrq.Field("inStock", "true")).
//	    OrderBy("price", solrq.Desc).
//	    Rows(10).
//	    Do(ctx)
//
// Documents are decoded with encoding/json into T. The unique key of every
// document is kept in ResultSet.Keys and is used to attach highlighting.
package solrq
