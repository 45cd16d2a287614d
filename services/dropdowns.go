package services

// LevelOptions are the seniority levels offered by the professional and
// offer item forms.
var LevelOptions = []string{
	"Estagiário",
	"Júnior",
	"Pleno",
	"Sênior",
	"Especialista",
}

// AllocationPercentOptions are the quick picks for an offer item's
// allocation percentage.
var AllocationPercentOptions = []int{25, 50, 75, 100}

// DurationOptions are the suggested project durations in months.
var DurationOptions = []int{1, 2, 3, 4, 6, 9, 12}
