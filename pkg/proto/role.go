package proto

// Role is a team role handed out during team formation.
type Role struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Roles is the fixed role catalog. Formation cycles through it by global
// participant position.
var Roles = [...]Role{
	{
		Name:        "Pioneer",
		Description: "Scouts imagery first and traces the main lines and substations.",
		Icon:        "🧭",
	},
	{
		Name:        "Technician",
		Description: "Tags equipment details such as voltage, operator, and circuits.",
		Icon:        "🔧",
	},
	{
		Name:        "Seeker",
		Description: "Hunts for missed towers, poles, and plants and validates the work.",
		Icon:        "🔍",
	},
}

// RoleAt returns the role for the participant at position i.
func RoleAt(i int) Role {
	return Roles[i%len(Roles)]
}
