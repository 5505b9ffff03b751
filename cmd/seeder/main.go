package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"iter"
	"log/slog"
	"os"

	legalassistant "github.com/cvignesh/legal-assistant"
	"github.com/cvignesh/legal-assistant/core"
	"github.com/cvignesh/legal-assistant/ingestion"
)

var chunks = []*core.Chunk{
	{
		EmbeddingText: "Section 138 of the Negotiable Instruments Act: dishonour of cheque for insufficiency of funds in the account. The drawer is deemed to have committed an offence punishable with imprisonment up to two years or fine up to twice the cheque amount.",
		RawContent:    "Where any cheque drawn by a person on an account maintained by him with a banker for payment of any amount of money to another person from out of that account for the discharge, in whole or in part, of any debt or other liability, is returned by the bank unpaid...",
		DocumentType:  core.DocumentTypeAct,
		Metadata: map[string]string{
			"act_name": "Negotiable Instruments Act, 1881",
			"section":  "138",
		},
	},
	{
		EmbeddingText: "Section 139 of the Negotiable Instruments Act: presumption in favour of holder. It shall be presumed, unless the contrary is proved, that the holder of a cheque received it for the discharge of a debt or liability.",
		DocumentType:  core.DocumentTypeAct,
		Metadata: map[string]string{
			"act_name": "Negotiable Instruments Act, 1881",
			"section":  "139",
		},
	},
	{
		EmbeddingText: "Section 118 of the Bharatiya Nyaya Sanhita: voluntarily causing hurt or grievous hurt by dangerous weapons or means.",
		DocumentType:  core.DocumentTypeAct,
		Metadata: map[string]string{
			"act_name": "Bharatiya Nyaya Sanhita, 2023",
			"section":  "118",
		},
	},
	{
		EmbeddingText: "Section 318 of the Bharatiya Nyaya Sanhita: cheating. Whoever cheats shall be punished with imprisonment which may extend to three years, or with fine, or with both.",
		DocumentType:  core.DocumentTypeAct,
		Metadata: map[string]string{
			"act_name": "Bharatiya Nyaya Sanhita, 2023",
			"section":  "318",
		},
	},
	{
		EmbeddingText:   "Rangappa v. Sri Mohan: the presumption under Section 139 of the Negotiable Instruments Act includes the existence of a legally enforceable debt. The accused can rebut the presumption by raising a probable defence on the preponderance of probabilities.",
		SupportingQuote: "The presumption mandated by Section 139 includes a presumption that there exists a legally enforceable debt or liability.",
		DocumentType:    core.DocumentTypeJudgment,
		Metadata: map[string]string{
			"case_name":              "Rangappa v. Sri Mohan",
			"court":                  "Supreme Court of India",
			core.MetadataYearOfJudgment: "2010",
		},
	},
	{
		EmbeddingText:   "Kusum Ingots v. Pennar Peterson: the ingredients of the offence under Section 138 must all be satisfied, including presentation within the validity period and failure to pay within fifteen days of the statutory notice.",
		SupportingQuote: "On a reading of the provisions of Section 138 it is clear that the ingredients which are to be satisfied for making out a case under the provision...",
		DocumentType:    core.DocumentTypeJudgment,
		Metadata: map[string]string{
			"case_name":              "Kusum Ingots & Alloys Ltd. v. Pennar Peterson Securities Ltd.",
			"court":                  "Supreme Court of India",
			core.MetadataYearOfJudgment: "2000",
		},
	},
	{
		EmbeddingText:   "K.S. Puttaswamy v. Union of India: the right to privacy is protected as an intrinsic part of the right to life and personal liberty under Article 21 of the Constitution.",
		SupportingQuote: "The right to privacy is protected as an intrinsic part of the right to life and personal liberty under Article 21 and as a part of the freedoms guaranteed by Part III of the Constitution.",
		DocumentType:    core.DocumentTypeJudgment,
		Metadata: map[string]string{
			"case_name":              "Justice K.S. Puttaswamy (Retd.) v. Union of India",
			"court":                  "Supreme Court of India",
			core.MetadataYearOfJudgment: "2017",
		},
	},
	{
		EmbeddingText:   "Arnesh Kumar v. State of Bihar: police officers must not arrest mechanically in offences punishable with imprisonment up to seven years; a checklist under Section 41 CrPC must be followed.",
		DocumentType:    core.DocumentTypeJudgment,
		Metadata: map[string]string{
			"case_name":              "Arnesh Kumar v. State of Bihar",
			"court":                  "Supreme Court of India",
			core.MetadataYearOfJudgment: "2014",
		},
	},
}

var (
	corpusPath   = flag.String("db", "./legal_corpus", "path to the corpus directory")
	seedFileName = flag.String("src", "", "JSON-lines file of chunks to seed")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// chunksFromFile returns an iterator over chunks decoded from a JSON-lines file.
func chunksFromFile(filename string) (iter.Seq2[*core.Chunk, error], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(*core.Chunk, error) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			chunk := &core.Chunk{}
			if !yield(chunk, json.Unmarshal(line, chunk)) {
				return
			}
		}
	}, nil
}

// chunksFromSlice returns an iterator over a slice of chunks.
func chunksFromSlice(source []*core.Chunk) iter.Seq2[*core.Chunk, error] {
	return func(yield func(*core.Chunk, error) bool) {
		for _, chunk := range source {
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// ingestBatched reads from a source iterator and ingests chunks in batches.
func ingestBatched(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq2[*core.Chunk, error], batchSize int) error {
	batch := make([]*core.Chunk, 0, batchSize)

	for chunk, err := range source {
		if err != nil {
			return err
		}
		batch = append(batch, chunk)
		if len(batch) == batchSize {
			if _, err := pipeline.Ingest(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	// Process any remaining chunks
	if len(batch) > 0 {
		if _, err := pipeline.Ingest(ctx, batch...); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	corpus, err := legalassistant.OpenCorpus(*corpusPath)
	if err != nil {
		panic(err)
	}
	defer corpus.Close()

	ingester, err := corpus.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer ingester.Release()

	ctx := context.Background()

	// Determine source of seed data
	var source iter.Seq2[*core.Chunk, error]
	if seedFileName != nil && *seedFileName != "" {
		source, err = chunksFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = chunksFromSlice(chunks)
	}

	// Ingest in batches of 5
	if err := ingestBatched(ctx, ingester, source, 5); err != nil {
		panic(err)
	}
}
