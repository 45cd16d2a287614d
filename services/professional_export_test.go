package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"staffpricing/testhelpers"
)

func TestGenerateProfessionalsExcel(t *testing.T) {
	profs := []Professional{
		{PID: "P-1", Name: "Ana", Role: "Dev", Level: "Sênior", HourlyCost: 120},
		{PID: "P-2", Name: "+danger", Role: "QA", Level: "Pleno", IsVacancy: true, HourlyCost: 80},
	}
	b, err := GenerateProfessionalsExcel(profs)
	if err != nil {
		t.Fatalf("GenerateProfessionalsExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(b))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows("Profissionais")
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if strings.Join(rows[0], ",") != "pid,name,role,level,is_vacancy,hourly_cost" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Ana" || rows[1][5] != "120" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][1] != "'+danger" || rows[2][4] != "true" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

func TestExportProfessionals_RoundTripsThroughImport(t *testing.T) {
	src := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProfessional(t, src, "Bruno", 70)
	testhelpers.CreateTestProfessional(t, src, "Ana", 90)

	b, err := ExportProfessionals(src)
	if err != nil {
		t.Fatalf("ExportProfessionals() error = %v", err)
	}

	dst := testhelpers.NewTestApp(t)
	res, err := ImportProfessionals(dst, "export.xlsx", bytesReader(b))
	if err != nil {
		t.Fatalf("ImportProfessionals() error = %v", err)
	}
	if res.Created != 2 || res.Errors != 0 {
		t.Errorf("import result = %+v", res)
	}
}
