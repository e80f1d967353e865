// Package models defines the persisted catalog entities and the lookup
// dictionaries that name them in staged datasets.
//
// Entities are identified by natural keys:
//
//	Index          name
//	CommonName     (name, index)
//	BotanicalName  name
//	Series         (name, common name)
//	Cultivar       (name, common name, series)
//	Packet         sku
//	Quantity       (encoded value, units)
//
// Placeholders created by references carry Invisible=true until their own
// record is reconciled.
package models
