// Package cmd provides command implementations for the dekorate CLI.
package cmd

// Exit codes returned by the dekorate binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates invalid configuration or flags.
	ExitValidationError = 2

	// ExitConnectivityError indicates the cluster or docker daemon could
	// not be reached.
	ExitConnectivityError = 3

	// ExitPermissionDenied indicates the cluster rejected the credentials
	// used by the apply hook or the s2i build.
	ExitPermissionDenied = 4

	// ExitNotFound indicates a project, marker file or property file was
	// not found.
	ExitNotFound = 5

	// ExitNoBuildService indicates an image build was requested but no
	// build service applies to the project.
	ExitNoBuildService = 6
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitConnectivityError:
		return "Connectivity Error"
	case ExitPermissionDenied:
		return "Permission Denied"
	case ExitNotFound:
		return "Not Found"
	case ExitNoBuildService:
		return "No Build Service"
	default:
		return "Unknown"
	}
}
