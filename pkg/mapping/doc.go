// Package mapping describes how a typed result is decoded from a raw API payload.
//
// Every type used as the result type of a request carries a Descriptor: the
// mapping target to instantiate and the default key path where the encoded
// value lives inside the payload. Single models provide their key path by
// implementing Mappable. Collections are derived at registration time:
//
//	table := mapping.NewTable()
//	mapping.Register[models.Video](table) // registers Video and []Video
//
//	d, err := mapping.Lookup[[]models.Video](table)
//	// d.KeyPath == "data", d.Target.Collection == true
//
// The Vimeo API wraps list payloads in an envelope ({"data": [...]}) while
// single objects are returned unwrapped, which is why collections default to
// the "data" key path.
//
// # Deserialization
//
// Deserializer is the opaque collaborator that turns a decoded payload into a
// typed value. JSONDeserializer is the default implementation, backed by
// bytedance/sonic.
package mapping
