// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulation

import (
	"math"
	"sort"
)

// Constituency is a voter class with its own vote pool.
type Constituency int

const (
	// Responsables is the room-representative constituency.
	Responsables Constituency = iota
	// Etudiants is the general student constituency.
	Etudiants
)

// Voter carries the attributes the weighting policy classifies on.
type Voter struct {
	ResponsableSalle bool
	Ecole            string
}

// Ballot is one recorded vote annotated with its voter's attributes.
type Ballot struct {
	CandidateID string
	Voter       Voter
}

// WeightPolicy splits voters into constituencies and assigns each
// constituency's weight in the final score. The 60/40 responsable split
// is one policy, not the algorithm.
type WeightPolicy interface {
	Classify(v Voter) Constituency
	Weight(c Constituency) float64
}

// ResponsablePolicy is the production policy: responsables de salle of
// the election's school weigh 60%, everyone else 40%. An empty Ecole
// scope (university-wide elections) counts representatives of any school.
type ResponsablePolicy struct {
	Ecole string
}

func (p ResponsablePolicy) Classify(v Voter) Constituency {
	if v.ResponsableSalle && (p.Ecole == "" || v.Ecole == p.Ecole) {
		return Responsables
	}
	return Etudiants
}

func (p ResponsablePolicy) Weight(c Constituency) float64 {
	if c == Responsables {
		return 0.6
	}
	return 0.4
}

// CandidateRef identifies a candidate in insertion order.
type CandidateRef struct {
	ID     string
	Nom    string
	Prenom string
}

// CandidateScore is the tabulated outcome for one candidate. Score and
// the percentages are unrounded; round only for display.
type CandidateScore struct {
	CandidateID string
	Nom         string
	Prenom      string
	VotesA      int // responsables
	VotesB      int // étudiants
	PctA        float64
	PctB        float64
	Score       float64
}

// Compute partitions the ballots into the policy's constituencies,
// computes per-candidate percentages within each, combines them with
// the constituency weights, and returns candidates ranked descending by
// score. Ties keep the candidates' insertion order (stable sort). A
// constituency with zero ballots contributes 0 to every score.
func Compute(candidates []CandidateRef, ballots []Ballot, policy WeightPolicy) []CandidateScore {
	votesA := make(map[string]int)
	votesB := make(map[string]int)
	totalA, totalB := 0, 0

	for _, b := range ballots {
		switch policy.Classify(b.Voter) {
		case Responsables:
			votesA[b.CandidateID]++
			totalA++
		default:
			votesB[b.CandidateID]++
			totalB++
		}
	}

	wA := policy.Weight(Responsables)
	wB := policy.Weight(Etudiants)

	scores := make([]CandidateScore, len(candidates))
	for i, c := range candidates {
		s := CandidateScore{
			CandidateID: c.ID,
			Nom:         c.Nom,
			Prenom:      c.Prenom,
			VotesA:      votesA[c.ID],
			VotesB:      votesB[c.ID],
		}
		if totalA > 0 {
			s.PctA = float64(s.VotesA) / float64(totalA) * 100
		}
		if totalB > 0 {
			s.PctB = float64(s.VotesB) / float64(totalB) * 100
		}
		s.Score = wA*s.PctA + wB*s.PctB
		scores[i] = s
	}

	// Ranking compares unrounded scores so display rounding can never
	// reorder candidates.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	return scores
}

// Participation returns votes cast over tokens issued as a percentage,
// or 0 when no tokens were issued.
func Participation(votes, tokens int) float64 {
	if tokens == 0 {
		return 0
	}
	return float64(votes) / float64(tokens) * 100
}

// Round2 rounds a percentage or score to 2 decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
