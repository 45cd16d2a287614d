package handlers

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
	"staffpricing/templates"
)

// Route: GET /professionals/import
func HandleProfessionalImportPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return templates.ProfessionalImportPage(nil, "", navData(e, templates.ViewProfessionals)).Render(e.Request.Context(), e.Response)
	}
}

// HandleProfessionalImportUpload imports the uploaded file and renders the
// summary below the upload form.
// Route: POST /professionals/import
func HandleProfessionalImportUpload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		nav := navData(e, templates.ViewProfessionals)
		render := func(result *services.ImportResult, msg string) error {
			return templates.ProfessionalImportPage(result, msg, nav).Render(e.Request.Context(), e.Response)
		}

		if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil {
			return render(nil, "Arquivo muito grande ou formulário inválido")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return render(nil, "Selecione um arquivo para importar")
		}
		defer file.Close()

		result, err := services.ImportProfessionals(app, header.Filename, file)
		if err != nil {
			_, msg := errorStatus(err)
			log.Printf("professional_import: %s: %v", header.Filename, err)
			return render(nil, msg)
		}

		SetToast(e, "success", fmt.Sprintf("Importação concluída: %d criados, %d atualizados", result.Created, result.Updated))
		return render(&result, "")
	}
}
