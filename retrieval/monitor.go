package retrieval

import "github.com/cvignesh/legal-assistant/core"

// SearchMonitor provides hooks to observe the pipeline.
// Implement this interface to track intermediate candidate sets and
// degradations during a search.
type SearchMonitor interface {
	Start(query *core.SearchQuery)
	AfterVectorRetrieval(candidates []*core.Candidate)
	AfterKeywordRetrieval(candidates []*core.Candidate)
	AfterFusion(candidates []*core.Candidate)
	AfterDedup(candidates []*core.Candidate)
	AfterBroadRerank(outcome RerankOutcome)
	AfterPrecisionRerank(outcome RerankOutcome)
	Finish(response *core.SearchResponse)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.SearchQuery)                   {}
func (n *noopMonitor) AfterVectorRetrieval(_ []*core.Candidate)    {}
func (n *noopMonitor) AfterKeywordRetrieval(_ []*core.Candidate)   {}
func (n *noopMonitor) AfterFusion(_ []*core.Candidate)             {}
func (n *noopMonitor) AfterDedup(_ []*core.Candidate)              {}
func (n *noopMonitor) AfterBroadRerank(_ RerankOutcome)            {}
func (n *noopMonitor) AfterPrecisionRerank(_ RerankOutcome)        {}
func (n *noopMonitor) Finish(_ *core.SearchResponse)               {}
