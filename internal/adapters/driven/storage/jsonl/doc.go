// Package jsonl stores corpus datasets as directories of JSON Lines files.
//
// Layout under the corpus root:
//
//	<root>/<dataset>/INFO.json          dataset descriptor
//	<root>/<dataset>/bucket_<id>.jsonl  one canonical record per line
//
// Bucket files are created lazily. Appends to one bucket file are serialized
// by an in-process lock; there is no cross-process coordination.
package jsonl
