package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// sendAttachment writes data as a file download.
func sendAttachment(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(data)
	return err
}
