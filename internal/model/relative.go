package model

import "fmt"

// RelativeCategory identifies one kind of surviving relative.
type RelativeCategory int

const (
	Husband RelativeCategory = iota
	Wife
	Son
	Daughter
	SonsSon
	SonsDaughter
	Father
	Mother
	PaternalGrandfather
	PaternalGrandmother
	MaternalGrandmother
	FullBrother
	FullSister
	PaternalBrother
	PaternalSister
	MaternalBrother
	MaternalSister
	FullNephew
	PaternalNephew
	FullNephewSon
	PaternalNephewSon
	FullPaternalUncle
	PaternalPaternalUncle
	FullCousin
	PaternalCousin
	FullCousinSon
	PaternalCousinSon
	FullCousinGrandson
	PaternalCousinGrandson
	DaughtersChild
	SistersChild
	MaternalUncle
	PaternalAunt

	categoryCount
)

type Sex int

const (
	SexMale Sex = iota
	SexFemale
)

func (s Sex) String() string {
	if s == SexFemale {
		return "female"
	}
	return "male"
}

// LegalClass is the inheritance class a category belongs to.
type LegalClass int

const (
	ClassSharer LegalClass = iota
	ClassResiduary
	ClassSharerResiduary
	ClassDistantKin
)

func (c LegalClass) String() string {
	switch c {
	case ClassSharer:
		return "sharer"
	case ClassResiduary:
		return "residuary"
	case ClassSharerResiduary:
		return "sharer_residuary"
	default:
		return "distant_kin"
	}
}

// CategoryInfo is the static metadata of a RelativeCategory.
// Max is 0 when the category is uncapped.
type CategoryInfo struct {
	Key   string
	Max   int
	Sex   Sex
	Class LegalClass
}

var categories = [categoryCount]CategoryInfo{
	Husband:                {Key: "husband", Max: 1, Sex: SexMale, Class: ClassSharer},
	Wife:                   {Key: "wife", Max: 4, Sex: SexFemale, Class: ClassSharer},
	Son:                    {Key: "son", Sex: SexMale, Class: ClassResiduary},
	Daughter:               {Key: "daughter", Sex: SexFemale, Class: ClassSharerResiduary},
	SonsSon:                {Key: "sons_son", Sex: SexMale, Class: ClassResiduary},
	SonsDaughter:           {Key: "sons_daughter", Sex: SexFemale, Class: ClassSharerResiduary},
	Father:                 {Key: "father", Max: 1, Sex: SexMale, Class: ClassSharerResiduary},
	Mother:                 {Key: "mother", Max: 1, Sex: SexFemale, Class: ClassSharer},
	PaternalGrandfather:    {Key: "paternal_grandfather", Max: 1, Sex: SexMale, Class: ClassSharerResiduary},
	PaternalGrandmother:    {Key: "paternal_grandmother", Max: 1, Sex: SexFemale, Class: ClassSharer},
	MaternalGrandmother:    {Key: "maternal_grandmother", Max: 1, Sex: SexFemale, Class: ClassSharer},
	FullBrother:            {Key: "full_brother", Sex: SexMale, Class: ClassResiduary},
	FullSister:             {Key: "full_sister", Sex: SexFemale, Class: ClassSharerResiduary},
	PaternalBrother:        {Key: "paternal_brother", Sex: SexMale, Class: ClassResiduary},
	PaternalSister:         {Key: "paternal_sister", Sex: SexFemale, Class: ClassSharerResiduary},
	MaternalBrother:        {Key: "maternal_brother", Sex: SexMale, Class: ClassSharer},
	MaternalSister:         {Key: "maternal_sister", Sex: SexFemale, Class: ClassSharer},
	FullNephew:             {Key: "full_nephew", Sex: SexMale, Class: ClassResiduary},
	PaternalNephew:         {Key: "paternal_nephew", Sex: SexMale, Class: ClassResiduary},
	FullNephewSon:          {Key: "full_nephew_son", Sex: SexMale, Class: ClassResiduary},
	PaternalNephewSon:      {Key: "paternal_nephew_son", Sex: SexMale, Class: ClassResiduary},
	FullPaternalUncle:      {Key: "full_paternal_uncle", Sex: SexMale, Class: ClassResiduary},
	PaternalPaternalUncle:  {Key: "paternal_paternal_uncle", Sex: SexMale, Class: ClassResiduary},
	FullCousin:             {Key: "full_cousin", Sex: SexMale, Class: ClassResiduary},
	PaternalCousin:         {Key: "paternal_cousin", Sex: SexMale, Class: ClassResiduary},
	FullCousinSon:          {Key: "full_cousin_son", Sex: SexMale, Class: ClassResiduary},
	PaternalCousinSon:      {Key: "paternal_cousin_son", Sex: SexMale, Class: ClassResiduary},
	FullCousinGrandson:     {Key: "full_cousin_grandson", Sex: SexMale, Class: ClassResiduary},
	PaternalCousinGrandson: {Key: "paternal_cousin_grandson", Sex: SexMale, Class: ClassResiduary},
	DaughtersChild:         {Key: "daughters_child", Class: ClassDistantKin},
	SistersChild:           {Key: "sisters_child", Class: ClassDistantKin},
	MaternalUncle:          {Key: "maternal_uncle", Sex: SexMale, Class: ClassDistantKin},
	PaternalAunt:           {Key: "paternal_aunt", Sex: SexFemale, Class: ClassDistantKin},
}

var categoryByKey = func() map[string]RelativeCategory {
	m := make(map[string]RelativeCategory, categoryCount)
	for i, info := range categories {
		m[info.Key] = RelativeCategory(i)
	}
	return m
}()

// MaleCollaterals lists the male-line collateral residuaries from nearest to
// most distant. Each present rank excludes every rank after it.
var MaleCollaterals = []RelativeCategory{
	FullNephew,
	PaternalNephew,
	FullNephewSon,
	PaternalNephewSon,
	FullPaternalUncle,
	PaternalPaternalUncle,
	FullCousin,
	PaternalCousin,
	FullCousinSon,
	PaternalCousinSon,
	FullCousinGrandson,
	PaternalCousinGrandson,
}

// Siblings lists every brother and sister category.
var Siblings = []RelativeCategory{
	FullBrother, FullSister,
	PaternalBrother, PaternalSister,
	MaternalBrother, MaternalSister,
}

// Categories returns every category in declaration order.
func Categories() []RelativeCategory {
	out := make([]RelativeCategory, categoryCount)
	for i := range out {
		out[i] = RelativeCategory(i)
	}
	return out
}

// ParseCategory resolves a wire key such as "full_sister".
func ParseCategory(key string) (RelativeCategory, bool) {
	c, ok := categoryByKey[key]
	return c, ok
}

func (c RelativeCategory) Valid() bool {
	return c >= 0 && c < categoryCount
}

func (c RelativeCategory) Info() CategoryInfo {
	if !c.Valid() {
		return CategoryInfo{}
	}
	return categories[c]
}

func (c RelativeCategory) String() string {
	if !c.Valid() {
		return fmt.Sprintf("RelativeCategory(%d)", int(c))
	}
	return categories[c].Key
}

func (c RelativeCategory) IsSpouse() bool {
	return c == Husband || c == Wife
}

func (c RelativeCategory) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid relative category %d", int(c))
	}
	return []byte(categories[c].Key), nil
}

func (c *RelativeCategory) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return &ValidationError{
			Code:    CodeUnknownCategory,
			Field:   "heirs",
			Message: fmt.Sprintf("unknown relative category %q", string(text)),
		}
	}
	*c = parsed
	return nil
}
