package provider

// Lookup tables for synthetic addresses. Order is part of the output contract.
var (
	streetNames = [...]string{
		"Main", "Oak", "Pine", "Maple", "Cedar",
		"Elm", "Washington", "Park", "Lake", "Hill",
		"River", "Spring", "Sunset", "Meadow", "Forest",
	}
	cityNames = [...]string{
		"Springfield", "Riverdale", "Franklin", "Greenville", "Kingston",
		"Manchester", "Newport", "Salem", "Clinton", "Georgetown",
	}
	stateCodes = [...]string{"CA", "NY", "TX", "FL", "IL", "PA", "OH", "GA", "NC", "MI"}
)

const country = "United States"
