/*
Package sdb implements an embedded, file-backed key/value store organised
into named tables of insertion-ordered string entries. The whole database
lives in a single file which is rewritten synchronously on every mutation,
optionally compressed with one of the built-in codecs (RLE, LZ77, Snappy).

Data Structure Documentation

File

A database file is a fixed header followed by a single compressed payload.
The codec itself is not recorded; it is an open-time contract between the
file and its caller.

	File layout:
	+-----------------------------+---------------------------+---------+
	| compressed length (8 bytes) | original length (8 bytes) | payload |
	+-----------------------------+---------------------------+---------+

Payload

The payload decompresses to a flat encoding of the table graph. All
integers are little-endian; counts and lengths are 4-byte signed.

	Payload layout:
	+---------------------+---------+-------+---------+
	| table count (int32) | table 1 |  ...  | table n |
	+---------------------+---------+-------+---------+

	Table:
	+------------------+------+---------------------+---------+-------+---------+
	| name len (int32) | name | entry count (int32) | entry 1 |  ...  | entry n |
	+------------------+------+---------------------+---------+-------+---------+

	Entry:
	+-----------------+-------------------+-----+-------+
	| key len (int32) | value len (int32) | key | value |
	+-----------------+-------------------+-----+-------+

Codecs

RLE stores (count, value) byte pairs with runs capped at 255. LZ77 stores a
token stream of literals (0x00, byte) and back-references (0x01, offset
uint16 LE, length uint8) over a 1 KiB window; matches may overlap their own
output. Snappy delegates to github.com/golang/snappy.
*/
package sdb
