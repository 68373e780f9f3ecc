package kubernetes

// Labels applied to every resource dekorate applies.
const (
	LabelManagedBy      = "app.kubernetes.io/managed-by"
	labelManagedByValue = "dekorate"

	// LabelGroup records the resource group (e.g. "openshift") that
	// produced the resource.
	LabelGroup = "dekorate.io/group"
)

// fieldManagerName is the field manager used for server-side apply.
const fieldManagerName = "dekorate"
