// Package domain models space-weather event data as served by the SENTINEL
// API and shapes it for display and export.
//
// # Data Source
//
// Records originate from NASA's Space Weather Database Of Notifications,
// Knowledge, Information (DONKI). The upstream API fetches the FLR, CME, and
// GST feeds for a day window and returns them unchanged under three keys:
//
//	{"solar_flares": [...], "cme_events": [...], "geomagnetic_storms": [...]}
//
// Any field of any record may be missing, and the feeds are not guaranteed to
// agree on types. Decoding never rejects a single record: a field of the wrong
// type is treated as absent, and a non-object element becomes an empty record.
//
// # DONKI Conventions
//
// Timestamps:
//
//	Minute precision with a literal Z, e.g. "2024-03-01T12:05Z". Full RFC 3339
//	values and bare dates are also accepted. Zone-less values are UTC.
//
// Solar flare class (classType):
//
//	GOES X-ray class letter followed by a multiplier, e.g. "M5.2", "X1.0".
//	The letter alone is the display intensity.
//
// CME speed:
//
//	km/s. >1000 High, >500 Medium, otherwise Low.
//
// Geomagnetic storm Kp index:
//
//	Planetary K-index, 0-9. >=7 Severe, >=5 Strong, otherwise Minor.
//
// A numeric zero is treated like an absent value throughout, so a CME with
// speed 0 has "Unknown" intensity.
//
// # Pipeline
//
//	DecodeDataset -> Normalize (per record) -> Aggregate (merge, newest first)
//	              -> Recent / PreviewSlice / RenderPreview / BuildChart
//	RecordsOf / EventRecords -> ToCSV / ToJSON -> Download
package domain
