package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
)

const maxUploadSize = 10 << 20

// HandleAPIProfessionalList returns {items, total}, sorted by name.
// Route: GET /api/professionals
func HandleAPIProfessionalList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		page, err := services.ListProfessionals(app, parseListQuery(e))
		if err != nil {
			return apiError(e, "api_professionals", err)
		}
		return e.JSON(http.StatusOK, page)
	}
}

// HandleAPIProfessionalGet returns one professional.
// Route: GET /api/professionals/{id}
func HandleAPIProfessionalGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := services.GetProfessional(app, e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, "api_professionals", err)
		}
		return e.JSON(http.StatusOK, p)
	}
}

// HandleAPIProfessionalCreate stores a new professional.
// Route: POST /api/professionals
func HandleAPIProfessionalCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.ProfessionalInput
		if err := decodeJSON(e, &in); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		p, err := services.CreateProfessional(app, in)
		if err != nil {
			return apiError(e, "api_professionals", err)
		}
		return e.JSON(http.StatusCreated, p)
	}
}

// HandleAPIProfessionalUpdate applies a partial update. PUT and PATCH share it.
// Route: PUT|PATCH /api/professionals/{id}
func HandleAPIProfessionalUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.ProfessionalInput
		if err := decodeJSON(e, &in); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		p, err := services.UpdateProfessional(app, e.Request.PathValue("id"), in)
		if err != nil {
			return apiError(e, "api_professionals", err)
		}
		return e.JSON(http.StatusOK, p)
	}
}

// HandleAPIProfessionalDelete removes a professional; 409 while allocated.
// Route: DELETE /api/professionals/{id}
func HandleAPIProfessionalDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DeleteProfessional(app, e.Request.PathValue("id")); err != nil {
			return apiError(e, "api_professionals", err)
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Profissional excluído"})
	}
}

// HandleAPIProfessionalImport imports a CSV or xlsx upload sent as the
// "file" multipart field.
// Route: POST /api/professionals/import-csv
func HandleAPIProfessionalImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil {
			return detail(e, http.StatusBadRequest, "Arquivo muito grande ou formulário inválido")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return detail(e, http.StatusBadRequest, "Selecione um arquivo para importar")
		}
		defer file.Close()

		result, err := services.ImportProfessionals(app, header.Filename, file)
		if err != nil {
			return apiError(e, "api_professionals_import", err)
		}
		return e.JSON(http.StatusOK, result)
	}
}

// HandleAPIProfessionalTemplate downloads the import template.
// Route: GET /api/professionals/template
func HandleAPIProfessionalTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GenerateImportTemplate()
		if err != nil {
			log.Printf("api_professionals_template: %v", err)
			return detail(e, http.StatusInternalServerError, "Falha ao gerar o modelo")
		}
		return sendAttachment(e, services.ExportXLSX.ContentType(), "modelo_profissionais.xlsx", data)
	}
}

// HandleAPIProfessionalExport downloads every professional as xlsx.
// Route: GET /api/professionals/export
func HandleAPIProfessionalExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.ExportProfessionals(app)
		if err != nil {
			log.Printf("api_professionals_export: %v", err)
			return detail(e, http.StatusInternalServerError, "Falha ao exportar profissionais")
		}
		filename := fmt.Sprintf("profissionais_%s.xlsx", time.Now().Format("20060102_150405"))
		return sendAttachment(e, services.ExportXLSX.ContentType(), filename, data)
	}
}
