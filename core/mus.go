package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Handwritten MUS serializers for persisted types. Kept by hand rather than
// generated: Chunk is the only persisted record and its layout changes rarely.
var (
	metadataMUS  = ord.NewMapSer[string, string](ord.String, ord.String)
	embeddingMUS = ord.NewSliceSer[float32](raw.Float32)

	// ChunkMUS serializes Chunk values for storage backends.
	ChunkMUS = chunkMUS{}
)

type chunkMUS struct{}

var _ mus.Serializer[Chunk] = chunkMUS{}

func (chunkMUS) Marshal(c Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(c.ID, bs)
	n += ord.String.Marshal(c.EmbeddingText, bs[n:])
	n += ord.String.Marshal(c.RawContent, bs[n:])
	n += ord.String.Marshal(c.SupportingQuote, bs[n:])
	n += ord.String.Marshal(string(c.DocumentType), bs[n:])
	n += varint.Int.Marshal(c.Year, bs[n:])
	n += metadataMUS.Marshal(c.Metadata, bs[n:])
	n += embeddingMUS.Marshal(c.Embedding, bs[n:])
	n += varint.Int64.Marshal(c.CreatedAt.UTC().UnixMicro(), bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	if c.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if c.EmbeddingText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.RawContent, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.SupportingQuote, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	var dt string
	if dt, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	c.DocumentType = DocumentType(dt)
	if c.Year, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Embedding, n1, err = embeddingMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	c.CreatedAt = time.UnixMicro(micros).UTC()
	return c, n, nil
}

func (chunkMUS) Size(c Chunk) (size int) {
	size = ord.String.Size(c.ID)
	size += ord.String.Size(c.EmbeddingText)
	size += ord.String.Size(c.RawContent)
	size += ord.String.Size(c.SupportingQuote)
	size += ord.String.Size(string(c.DocumentType))
	size += varint.Int.Size(c.Year)
	size += metadataMUS.Size(c.Metadata)
	size += embeddingMUS.Size(c.Embedding)
	size += varint.Int64.Size(c.CreatedAt.UTC().UnixMicro())
	return size
}

func (chunkMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 5; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	if n1, err = varint.Int.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = metadataMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = embeddingMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Int64.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	return n + n1, nil
}
