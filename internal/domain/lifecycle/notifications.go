package lifecycle

import (
	"fmt"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

const successAutoCloseMs = 1500

func deletedNotification(name string) types.Notification {
	return types.Notification{
		Title:       "Config deleted",
		Message:     fmt.Sprintf("Configuration %q was deleted", name),
		Icon:        "check",
		Color:       "green",
		AutoCloseMs: successAutoCloseMs,
		Radius:      "md",
	}
}

func deleteRejectedNotification(reason string) types.Notification {
	return types.Notification{
		Title:   "Unable to delete config",
		Message: reason,
	}
}

func deleteFailedNotification() types.Notification {
	return types.Notification{
		Title:   "Unable to delete config",
		Message: "The config storage could not be reached. Try again later.",
		Color:   "red",
	}
}

func savedNotification(name string) types.Notification {
	return types.Notification{
		Title:       "Config saved",
		Message:     fmt.Sprintf("Configuration %q was created", name),
		Icon:        "check",
		Color:       "green",
		AutoCloseMs: successAutoCloseMs,
		Radius:      "md",
	}
}

func saveFailedNotification(name string) types.Notification {
	return types.Notification{
		Title:   "Unable to save config",
		Message: fmt.Sprintf("Changes to %q could not be stored and will be lost on restart", name),
		Color:   "red",
	}
}

func restoredNotification(name string) types.Notification {
	return types.Notification{
		Title:       "Config restored",
		Message:     fmt.Sprintf("Configuration %q was restored", name),
		Icon:        "check",
		Color:       "green",
		AutoCloseMs: successAutoCloseMs,
		Radius:      "md",
	}
}
