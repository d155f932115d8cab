package permissions

// staff permission keys referenced by handlers and middleware
const (
	RoomCreate    = "room.create"
	RoomEdit      = "room.edit"
	VisitorList   = "visitor.list"
	VisitorView   = "visitor.view"
	BadgeManage   = "badge.manage"
	BadgeAward    = "badge.award"
	WinnerMark    = "winner.mark"
	StaffManage   = "staff.manage"
	SubmissionMod = "submission.moderate"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string `json:"key"`         // unique key, e.g., "room.create"
	Name        string `json:"name"`        // friendly name, e.g., "Create Room"
	Description string `json:"description"` // detailed description of what the permission allows
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Permissions []PermissionDefinition `json:"permissions"`
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:         "room",
		Name:        "Room Management",
		Description: "Permissions related to managing museum rooms.",
		Permissions: []PermissionDefinition{
			{
				Key:         RoomCreate,
				Name:        "Create Room",
				Description: "Allows creating new rooms.",
			},
			{
				Key:         RoomEdit,
				Name:        "Edit Room",
				Description: "Allows editing room names and descriptions.",
			},
		},
	},
	{
		Key:         "visitor",
		Name:        "Visitor Management",
		Description: "Permissions related to viewing visitor records.",
		Permissions: []PermissionDefinition{
			{
				Key:         VisitorList,
				Name:        "List Visitors",
				Description: "Allows viewing the list of registered visitors.",
			},
			{
				Key:         VisitorView,
				Name:        "View Visitor Details",
				Description: "Allows viewing detailed information of a specific visitor, including linked credentials.",
			},
		},
	},
	{
		Key:         "badge",
		Name:        "Badge Management",
		Description: "Permissions related to managing achievement badges.",
		Permissions: []PermissionDefinition{
			{
				Key:         BadgeManage,
				Name:        "Manage Badges",
				Description: "Allows creating and editing badge definitions and icons.",
			},
			{
				Key:         BadgeAward,
				Name:        "Award Badges",
				Description: "Allows manually awarding badges to visitors.",
			},
		},
	},
	{
		Key:         "contest",
		Name:        "Contest Administration",
		Description: "Permissions related to the photo contest.",
		Permissions: []PermissionDefinition{
			{
				Key:         WinnerMark,
				Name:        "Mark Hourly Winner",
				Description: "Allows triggering the hourly winner selection for a room.",
			},
			{
				Key:         SubmissionMod,
				Name:        "Moderate Submissions",
				Description: "Allows reviewing photo submissions across all rooms.",
			},
		},
	},
	{
		Key:         "staff",
		Name:        "Staff Administration",
		Description: "Permissions related to managing staff accounts.",
		Permissions: []PermissionDefinition{
			{
				Key:         StaffManage,
				Name:        "Manage Staff",
				Description: "Allows creating staff accounts and assigning permissions.",
			},
		},
	},
}

var (
	allPermissionKeysMap map[string]PermissionDefinition
	allPermissionKeys    []string
)

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			allPermissionKeysMap[perm.Key] = perm
			allPermissionKeys = append(allPermissionKeys, perm.Key)
		}
	}
}

// GetAllPermissionDefinitions returns a map of all defined permissions, keyed by their unique string key
func GetAllPermissionDefinitions() map[string]PermissionDefinition {
	return allPermissionKeysMap
}

// GetAllPermissionKeys returns a slice of all unique permission string keys
func GetAllPermissionKeys() []string {
	// return a copy to prevent modification of the internal slice
	keys := make([]string, len(allPermissionKeys))
	copy(keys, allPermissionKeys)
	return keys
}

// IsValidPermissionKey checks if a given permission key is defined
func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}
