// Package badger implements storage.ChunkRepository on BadgerDB.
//
// Chunks are stored under "chunk:" keys as MUS-encoded records. The
// keyword index lives alongside them as "tok:token:chunkID" postings
// carrying term frequencies, maintained transactionally with every
// chunk write. VectorSearch runs an exact cosine-similarity scan over
// all chunks; KeywordSearch resolves query tokens through the posting
// lists with a frequency-damped score.
package badger
