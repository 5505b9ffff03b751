package badger

import "bytes"

// Key prefixes for different data types
const (
	chunkPrefix = "chunk"
	tokenPrefix = "tok"
)

// makeChunkKey generates a key for a chunk by ID.
// Format: chunk:id
func makeChunkKey(id string) []byte {
	buf := make([]byte, 0, len(chunkPrefix)+1+len(id))
	buf = append(buf, chunkPrefix...)
	buf = append(buf, ':')
	return append(buf, id...)
}

// chunkScanPrefix is the prefix covering all chunk keys.
func chunkScanPrefix() []byte {
	return []byte(chunkPrefix + ":")
}

// makeTokenKey generates a posting key for the keyword index.
// Format: tok:token:chunkID
func makeTokenKey(token, chunkID string) []byte {
	buf := make([]byte, 0, len(tokenPrefix)+2+len(token)+len(chunkID))
	buf = append(buf, tokenPrefix...)
	buf = append(buf, ':')
	buf = append(buf, token...)
	buf = append(buf, ':')
	return append(buf, chunkID...)
}

// makeTokenScanPrefix generates the prefix covering all postings of a token.
func makeTokenScanPrefix(token string) []byte {
	buf := make([]byte, 0, len(tokenPrefix)+2+len(token))
	buf = append(buf, tokenPrefix...)
	buf = append(buf, ':')
	buf = append(buf, token...)
	return append(buf, ':')
}

// chunkIDFromTokenKey extracts the chunk ID from a posting key.
// Chunk IDs are hex strings and never contain a colon, so the ID is
// everything after the last separator.
func chunkIDFromTokenKey(key []byte) string {
	idx := bytes.LastIndexByte(key, ':')
	if idx < 0 || idx+1 >= len(key) {
		return ""
	}
	return string(key[idx+1:])
}
