// Package pack decodes the on-disk structures of a PK2 archive: the archive
// header, the fixed-size directory blocks and the entries they contain.
//
// An archive starts with a 256 byte header, immediately followed by the first
// block of the root directory. Every directory is a chain of blocks; each
// block holds EntriesPerBlock entries of EntrySize bytes, and the NextChain
// field of the last entry points at the next block of the same directory.
// Decoding operates on already decrypted buffers.
package pack
