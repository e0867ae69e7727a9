// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package eligibility implements the eligibility resolver: the predicate
deciding whether a student may receive a vote token for an election.

Rules by election type:

  - SALLE: the student's filière and année must match the election's.
  - ECOLE: the student must be a responsable de salle of the election's
    school (the school is derived from the filière when not set on the
    student record).
  - UNIVERSITE: all students, or only cross-school delegates when the
    resolver is configured with UniversityDelegatesOnly.

The resolver never touches the database. Token issuance and bulk
issuance at election creation both gate on it.
*/
package eligibility
