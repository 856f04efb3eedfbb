// Package dataprocessing flattens ball-by-ball match documents into one row
// per delivery.
//
// # Architecture
//
// Three components, composed leaf to root:
//
//  1. DeliveryExtractor: flattens one delivery with its match, innings and over
//  2. MatchParser: validates one match document and walks it in document order
//  3. CorpusLoader: enumerates a directory, parses documents concurrently,
//     merges their rows and normalizes match dates
//
// # Usage
//
//	loader := dataprocessing.NewCorpusLoader(dataprocessing.Options{
//	    Workers:    4,
//	    DatePolicy: dataprocessing.DatePolicySkip,
//	    Logger:     logger,
//	})
//	ds, err := loader.Load(ctx, "data/matches")
//	if err != nil {
//	    return err
//	}
//	summary := dataprocessing.Summarize(ds)
//
// # Error Handling
//
// Failures are contained at the smallest unit that can be discarded:
//
//   - ExtractionError drops one delivery
//   - SchemaError drops one match document
//   - DateParseError drops the rows of one match, or aborts the load when
//     the loader runs with DatePolicyAbort
//
// Each is logged with the source file and match id. Load itself only fails
// when the directory cannot be read, the context is cancelled, or the abort
// date policy triggers.
package dataprocessing
