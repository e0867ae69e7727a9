// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package eligibility

import (
	"github.com/kossiga/univote/academic"
	"github.com/kossiga/univote/models"
)

// Resolver decides whether a student may receive a vote token for an
// election. It is a pure predicate over the two records; the caller is
// responsible for loading them.
type Resolver struct {
	// UniversityDelegatesOnly restricts UNIVERSITE elections to
	// cross-school delegates instead of the whole student body.
	UniversityDelegatesOnly bool
}

// Eligible reports whether the student may vote in the election.
func (r *Resolver) Eligible(student models.Student, election models.Election) bool {
	switch election.Type {
	case models.TypeSalle:
		return election.Filiere != nil && election.Annee != nil &&
			student.Filiere == *election.Filiere &&
			student.Annee == *election.Annee

	case models.TypeEcole:
		// School officers are elected by the room representatives of
		// that school.
		if election.Ecole == nil || !student.ResponsableSalle {
			return false
		}
		ecole := student.Ecole
		if ecole == "" {
			ecole = academic.SchoolForFiliere(student.Filiere)
		}
		return ecole == *election.Ecole

	case models.TypeUniversite:
		if r.UniversityDelegatesOnly {
			return student.DelegueEcole
		}
		return true
	}

	return false
}
