// Package repository implements the catalog's persistence ports on gorm.
//
// Every store resolves entities by natural key and accepts a dbctx.Context,
// so the same calls work on the base connection and inside a reconcile
// transaction. Unique-constraint violations on Save surface as
// *reconcile.IdentityConflictError.
package repository
