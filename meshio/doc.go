// Package meshio reads and writes meshes in the MKM binary format and keeps
// collections of serialized meshes in a blob store.
//
// # Format
//
//	[magic "MKM1"][version uint16][top type uint8][compression uint8]
//	[block]*  [end block]  [crc32 uint32]
//
// Each block is [uncompressed uint32][compressed uint32][data]; a compressed
// size of zero means the data is stored raw, and a block with both sizes zero
// ends the stream. The decompressed blocks hold a sequence of records, one per
// mesh.Writer call, followed by an end record. The CRC32 (IEEE) covers every
// byte before it.
//
// # Usage
//
//	if err := meshio.SaveToFile("part.mkm", m, meshio.WithCompression(meshio.CompressionZSTD)); err != nil {
//	    return err
//	}
//	m, err := meshio.LoadFromFile("part.mkm")
package meshio
