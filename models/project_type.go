package models

// SpaceType classifies the property being renovated
type SpaceType string

const (
	SpaceApartment  SpaceType = "apartment"
	SpaceHouse      SpaceType = "house"
	SpaceVilla      SpaceType = "villa"
	SpaceOffice     SpaceType = "office"
	SpaceCommercial SpaceType = "commercial"
	SpaceOther      SpaceType = "other"
)

var AllSpaceTypes = []SpaceType{
	SpaceApartment, SpaceHouse, SpaceVilla, SpaceOffice, SpaceCommercial, SpaceOther,
}

// Valid reports whether t is a known space type
func (t SpaceType) Valid() bool {
	for _, known := range AllSpaceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ProjectType is a kind of work requested on a project
type ProjectType string

const (
	ProjectTypeFullRemodel ProjectType = "full-remodel"
	ProjectTypeKitchen     ProjectType = "kitchen"
	ProjectTypeBathroom    ProjectType = "bathroom"
	ProjectTypeFlooring    ProjectType = "flooring"
	ProjectTypePainting    ProjectType = "painting"
	ProjectTypeWallpaper   ProjectType = "wallpaper"
	ProjectTypeElectrical  ProjectType = "electrical"
	ProjectTypePlumbing    ProjectType = "plumbing"
	ProjectTypeWindows     ProjectType = "windows"
	ProjectTypeOther       ProjectType = "other"
)

var AllProjectTypes = []ProjectType{
	ProjectTypeFullRemodel,
	ProjectTypeKitchen,
	ProjectTypeBathroom,
	ProjectTypeFlooring,
	ProjectTypePainting,
	ProjectTypeWallpaper,
	ProjectTypeElectrical,
	ProjectTypePlumbing,
	ProjectTypeWindows,
	ProjectTypeOther,
}

// Valid reports whether t is a known project type
func (t ProjectType) Valid() bool {
	for _, known := range AllProjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Budget is the customer's budget band
type Budget string

const (
	BudgetUnder10M  Budget = "under-10m"
	Budget10To30M   Budget = "10m-30m"
	Budget30To50M   Budget = "30m-50m"
	Budget50To100M  Budget = "50m-100m"
	BudgetOver100M  Budget = "over-100m"
	BudgetUndecided Budget = "undecided"
)

var AllBudgets = []Budget{
	BudgetUnder10M, Budget10To30M, Budget30To50M, Budget50To100M, BudgetOver100M, BudgetUndecided,
}

// Valid reports whether b is a known budget band
func (b Budget) Valid() bool {
	for _, known := range AllBudgets {
		if b == known {
			return true
		}
	}
	return false
}

// Timeline is when the customer wants work to start
type Timeline string

const (
	TimelineImmediate  Timeline = "immediate"
	TimelineOneMonth   Timeline = "within-1-month"
	TimelineThreeMonth Timeline = "within-3-months"
	TimelineFlexible   Timeline = "flexible"
)

var AllTimelines = []Timeline{
	TimelineImmediate, TimelineOneMonth, TimelineThreeMonth, TimelineFlexible,
}

// Valid reports whether t is a known timeline
func (t Timeline) Valid() bool {
	for _, known := range AllTimelines {
		if t == known {
			return true
		}
	}
	return false
}
