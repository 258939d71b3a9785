package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"score:view-own",
		"settings:view",
	},
	"teacher": {
		"score:view-own",
		"score:view-all",
		"attendance:record",
		"grade:assign",
		"activity:record",
		"transfer:record",
		"settings:view",
	},
	"admin": {
		"*", // everything
	},
}
