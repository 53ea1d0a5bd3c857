// Package dirsearch embeds tenant-scoped employee directory search in a Go program.
//
// The client ranks a tenant's employees against a free-text query using exact,
// partial and fuzzy field matching, caches results for five minutes, and offers
// prefix autocomplete over names, titles, departments and skills.
//
//	client, _ := dirsearch.New(
//	    dirsearch.WithPostgres("postgres://localhost/directory", 10),
//	    dirsearch.WithRedis("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "acme", "alice", dirsearch.SearchParams{Query: "jon"})
//	names, _ := client.Autocomplete(ctx, "acme", "jo", dirsearch.Names, 5)
package dirsearch
