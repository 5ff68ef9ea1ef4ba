package printer

import (
	"fmt"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
)

// Diagnostic is a rendered-ready description of a failure.
type Diagnostic struct {
	Title    string
	Message  string
	Cause    string
	Details  []string
	Remedies []string
}

// Diagnose maps an error onto its diagnostic template. Errors outside the
// apperr taxonomy get the generic template with the error text as message.
func Diagnose(err error) Diagnostic {
	e, ok := apperr.As(err)
	if !ok {
		return Diagnostic{
			Title:   "Error occurred",
			Message: err.Error(),
			Remedies: []string{
				"Check the application logs for more details",
				"Run with --verbose for more information",
			},
		}
	}

	d := templateFor(e)
	d.Cause = e.Error()
	d.Details = e.Details
	if len(e.Remedies) > 0 {
		d.Remedies = e.Remedies
	}
	return d
}

func templateFor(e *apperr.Error) Diagnostic {
	configPath := e.Get("config_path", "_datasets/<dataset_id>.yml")
	datasetID := e.Get("dataset_id", "unknown")

	switch e.Kind {
	case apperr.DataFileNotFound:
		// Without a single path, the error names the missing files itself.
		message := e.Message
		if path := e.Get("path", ""); path != "" {
			message = fmt.Sprintf("The file %s does not exist.", path)
		}
		return Diagnostic{
			Title:   "File not found",
			Message: message,
			Remedies: []string{
				"Check if the path is correct",
				"Make sure you're in the right directory",
				"Check the 'file' entry of the source in " + configPath,
			},
		}
	case apperr.PermissionError:
		path := e.Get("path", "unknown")
		return Diagnostic{
			Title:   "Permission denied",
			Message: fmt.Sprintf("You don't have permission to access %s", path),
			Remedies: []string{
				"Check file permissions: ls -la " + e.Get("path", "<file_path>"),
				"Try running with elevated permissions",
			},
		}
	case apperr.NetworkError:
		service := e.Get("service", "remote service")
		return Diagnostic{
			Title:   "Network error",
			Message: "Could not connect to " + service,
			Remedies: []string{
				"Check your internet connection",
				"Verify that " + e.Get("service", "the service") + " is available",
				"Check API credentials if applicable",
			},
		}
	case apperr.MissingDependency:
		dep := e.Get("dependency", "unknown")
		return Diagnostic{
			Title:   "Missing dependency",
			Message: fmt.Sprintf("The required dependency %s is not installed", dep),
			Remedies: []string{
				"Install the dependency: " + e.Get("install", "install "+dep),
				"Make sure it is available on your PATH",
			},
		}
	case apperr.MissingCredentials:
		platform := e.Get("platform", "the platform")
		return Diagnostic{
			Title:   "Missing credentials",
			Message: "No API token is configured for " + platform,
			Remedies: []string{
				"Run 'meddata setup' to create a .env file",
				"Add the " + e.Get("env", "platform token") + " entry to .env",
				"Or pass the token explicitly with --token",
			},
		}
	case apperr.DatasetConfigError:
		return Diagnostic{
			Title:   "Invalid dataset configuration",
			Message: fmt.Sprintf("The dataset configuration for %s is invalid", datasetID),
			Remedies: []string{
				"Check the YAML syntax in " + configPath,
				"Ensure all required fields are present",
				"Validate the YAML file with a linter",
			},
		}
	case apperr.UnsupportedFormat:
		return Diagnostic{
			Title:   "Unsupported file format",
			Message: fmt.Sprintf("Cannot load %s", e.Get("path", "the data file")),
			Remedies: []string{
				"Point the source at a .csv or .parquet file",
				"Convert the file before processing",
			},
		}
	case apperr.DatasetDirNotFound:
		return Diagnostic{
			Title:   "Dataset directory not found",
			Message: fmt.Sprintf("No directory exists for dataset %s", datasetID),
			Remedies: []string{
				"Run 'meddata init " + datasetID + " <name> <description>' first",
				"Check that you are in the project root",
			},
		}
	case apperr.InvalidArgument:
		return Diagnostic{
			Title:    "Invalid argument",
			Message:  e.Message,
			Remedies: []string{"Run 'meddata manual' to see command usage"},
		}
	case apperr.ProcessingError:
		return Diagnostic{
			Title:   "Error processing dataset",
			Message: fmt.Sprintf("Failed to process dataset %s", datasetID),
			Remedies: []string{
				"Check source configuration in " + configPath,
				"Ensure source APIs are accessible",
				"Check logs for detailed error information",
			},
		}
	}

	return Diagnostic{
		Title:   "Error occurred",
		Message: e.Message,
		Remedies: []string{
			"Check the application logs for more details",
			"Run with --verbose for more information",
		},
	}
}
