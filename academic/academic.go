// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package academic

// Ecoles maps each school to the filières it teaches.
var Ecoles = map[string][]string{
	"EGEI": {
		"Électronique",
		"Génie Télécoms et TIC",
		"Informatique Industrielle et Maintenance",
		"Electrotechnique",
	},
	"ESMEA": {
		"Assurances",
		"Banque et Finance d'Entreprise",
		"Audit et Contrôle de Gestion",
		"Management des Ressources Humaines",
		"Action Commerciale et Force de Vente",
		"Communication et Action Publicitaire",
		"Commerce",
		"Informatique de Gestion",
		"Transport et Logistique",
	},
	"FSAE": {
		"Gestion de l'Environnement et Aménagement du Territoire",
		"Production et Gestion des Ressources Animales",
		"Sciences et Techniques de Production Végétale",
		"Stockage Conservation et Conditionnement des Produits Agricoles",
		"Gestion des Entreprises Rurales et Agricoles",
	},
	"FDE": {
		"Droit",
		"Economie",
	},
}

// Annees lists the valid years of study.
var Annees = []int{1, 2, 3}

// ValidFiliere reports whether a filière exists in any school.
func ValidFiliere(filiere string) bool {
	return SchoolForFiliere(filiere) != ""
}

// ValidEcole reports whether a school code exists.
func ValidEcole(ecole string) bool {
	_, ok := Ecoles[ecole]
	return ok
}

// ValidAnnee reports whether a year of study is offered.
func ValidAnnee(annee int) bool {
	for _, a := range Annees {
		if a == annee {
			return true
		}
	}
	return false
}

// SchoolForFiliere returns the school teaching a filière, or "" if the
// filière is unknown.
func SchoolForFiliere(filiere string) string {
	for ecole, filieres := range Ecoles {
		for _, f := range filieres {
			if f == filiere {
				return ecole
			}
		}
	}
	return ""
}
