// Package reconcile merges staged catalog datasets into the catalog store.
//
// The Resolver finds entities by natural key and creates hidden
// placeholders for references to entities that do not exist yet. The
// Driver turns each staged record into an engine unit that resolves the
// record's entity, diffs its fields, converges its relations (synonyms,
// grows-with edges, botanical name memberships) and reports every change.
// Records are processed Index first and Packet last, one transaction each.
package reconcile
