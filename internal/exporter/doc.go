// Package exporter writes a flattened delivery dataset to disk.
//
// Three sinks share the Exporter interface and the column layout of
// domain.Columns:
//
// CSVExporter: encoding/csv with an optional UTF-8 BOM for Excel. Null
// columns are written as empty fields.
//
// XLSXExporter: a single "deliveries" worksheet written with excelize's
// streaming writer. Numeric columns stay numeric.
//
// SQLiteExporter: a "deliveries" table (recreated on each export) filled in
// one transaction through a prepared insert. Null columns are SQL NULL.
//
// Example usage:
//
//	results, err := exporter.ExportAll(ctx, ds, cfg.Export, logger)
//	for _, res := range results {
//	    fmt.Println(res.Format, res.Path)
//	}
package exporter
