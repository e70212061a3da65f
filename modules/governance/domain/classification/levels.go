// Package classification defines the two ranking scales of the governance
// model: personnel security clearances and data sensitivity levels. The two
// scales are distinct types compared only through their ordinal rank; the
// policy validator is the single place they are related.
package classification

// PersonnelSecurityLevel is the clearance ordinal assigned to a user.
type PersonnelSecurityLevel string

const (
	NonSecret PersonnelSecurityLevel = "NON_SECRET"
	General   PersonnelSecurityLevel = "GENERAL"
	Important PersonnelSecurityLevel = "IMPORTANT"
	Core      PersonnelSecurityLevel = "CORE"
)

var personnelRank = map[PersonnelSecurityLevel]int{
	NonSecret: 0,
	General:   1,
	Important: 2,
	Core:      3,
}

func (l PersonnelSecurityLevel) Rank() int {
	return personnelRank[l]
}

func (l PersonnelSecurityLevel) Valid() bool {
	_, ok := personnelRank[l]
	return ok
}

// DataSensitivityLevel is the classification ordinal assigned to a dataset
// or an organization node.
type DataSensitivityLevel string

const (
	Public    DataSensitivityLevel = "PUBLIC"
	Internal  DataSensitivityLevel = "INTERNAL"
	Secret    DataSensitivityLevel = "SECRET"
	TopSecret DataSensitivityLevel = "TOP_SECRET"
)

var dataRank = map[DataSensitivityLevel]int{
	Public:    0,
	Internal:  1,
	Secret:    2,
	TopSecret: 3,
}

func (l DataSensitivityLevel) Rank() int {
	return dataRank[l]
}

func (l DataSensitivityLevel) Valid() bool {
	_, ok := dataRank[l]
	return ok
}

func PersonnelLevels() []PersonnelSecurityLevel {
	return []PersonnelSecurityLevel{NonSecret, General, Important, Core}
}

func DataLevels() []DataSensitivityLevel {
	return []DataSensitivityLevel{Public, Internal, Secret, TopSecret}
}
