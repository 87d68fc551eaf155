// Package dataprocessing turns raw scraped product records into a cleaned,
// deduplicated dataset. It covers the data lifecycle between the ingestion
// boundary and the statistical analyzer.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Parser: coerces loose raw records (JSON maps) into typed Records
// 2. Cleaner: normalizes text, extracts features and scores data quality
// 3. Deduplicator: drops duplicates on a content-derived identity key
//
// # Usage
//
// Parsing raw input:
//
//	raws, err := dataprocessing.ReadRawFile("zoomer_products.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	records := dataprocessing.ParseRawRecords(raws)
//
// Cleaning validated records:
//
//	cleaner := dataprocessing.NewCleaner(cfg.Pipeline, logger)
//	cleaned := cleaner.Clean(validRecords)
//
// Deduplication:
//
//	unique := dataprocessing.Deduplicate(cleaned, cfg.Pipeline.DedupPricePrecision)
//
// # Data Flow
//
// The typical data flow through this package:
//
//	JSON file → Parser → Records → Validator → Cleaner → Deduplicator → Analyzer
//
// # Error Handling
//
// Field-level problems never abort a batch: the parser leaves sentinel
// values for the validator, and the cleaner flags rather than fails.
// Only an undecodable input file is an error (malformed input).
package dataprocessing
