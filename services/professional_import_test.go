package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"staffpricing/testhelpers"
)

func TestImportProfessionals_CSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "\ufeffpid,nome,função,nível,vaga,custo_hora\n" +
		"P-0001,Ana Souza,Desenvolvedora,Sênior,não,\"1.234,50\"\n" +
		",Bruno Lima,QA,Pleno,sim,80\n" +
		",,QA,Pleno,,80\n" +
		",Carla,Dev,Jr,talvez,50\n" +
		",,,,,\n"

	res, err := ImportProfessionals(app, "equipe.CSV", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportProfessionals() error = %v", err)
	}
	if res.Created != 2 || res.Updated != 0 || res.Errors != 2 {
		t.Errorf("result = %+v", res)
	}
	if len(res.ErrorDetails) != 2 || !strings.HasPrefix(res.ErrorDetails[0], "Linha 4:") || !strings.HasPrefix(res.ErrorDetails[1], "Linha 5:") {
		t.Errorf("error details = %v", res.ErrorDetails)
	}

	ana, err := app.FindFirstRecordByData("professionals", "pid", "P-0001")
	if err != nil {
		t.Fatalf("Ana not imported: %v", err)
	}
	if ana.GetFloat("hourly_cost") != 1234.5 || ana.GetBool("is_vacancy") {
		t.Errorf("Ana = cost %v vacancy %v", ana.GetFloat("hourly_cost"), ana.GetBool("is_vacancy"))
	}
	bruno, err := app.FindFirstRecordByData("professionals", "name", "Bruno Lima")
	if err != nil {
		t.Fatalf("Bruno not imported: %v", err)
	}
	if !bruno.GetBool("is_vacancy") || bruno.GetString("pid") == "" {
		t.Errorf("Bruno = vacancy %v pid %q", bruno.GetBool("is_vacancy"), bruno.GetString("pid"))
	}
}

func TestImportProfessionals_Upsert(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	existing := testhelpers.CreateTestProfessional(t, app, "Ana", 50)
	pid := existing.GetString("pid")

	csv := "pid,name,role,level,hourly_cost\n" +
		pid + ",Ana Maria,Arquiteta,Sênior,150\n" +
		",Ana Maria,Arquiteta,Especialista,160\n" +
		",Novo,Dev,Jr,40\n"

	res, err := ImportProfessionals(app, "p.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportProfessionals() error = %v", err)
	}
	// row 2 updates by pid (renaming), row 3 then matches by the new name
	if res.Created != 1 || res.Updated != 2 || res.Errors != 0 {
		t.Errorf("result = %+v", res)
	}
	got, _ := app.FindRecordById("professionals", existing.Id)
	if got.GetString("name") != "Ana Maria" || got.GetString("level") != "Especialista" || got.GetFloat("hourly_cost") != 160 {
		t.Errorf("upserted = %s/%s/%v", got.GetString("name"), got.GetString("level"), got.GetFloat("hourly_cost"))
	}
}

func TestImportProfessionals_Rejects(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := ImportProfessionals(app, "p.txt", strings.NewReader("x")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := ImportProfessionals(app, "p.csv", strings.NewReader("name,role\nAna,Dev\n")); err == nil ||
		!strings.Contains(err.Error(), "level") || !strings.Contains(err.Error(), "hourly_cost") {
		t.Errorf("missing columns error = %v", err)
	}
	if _, err := ImportProfessionals(app, "p.csv", strings.NewReader("name,role,level,hourly_cost\n")); err == nil {
		t.Error("expected error for header-only file")
	}
}

func TestImportProfessionals_NonFiniteCost(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "name,role,level,hourly_cost\n" +
		"Ana,Dev,Pleno,NaN\n" +
		"Bia,Dev,Pleno,Inf\n" +
		"Caio,Dev,Pleno,\"R$ 90,00\"\n"
	res, err := ImportProfessionals(app, "p.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportProfessionals() error = %v", err)
	}
	if res.Created != 1 || res.Errors != 2 {
		t.Errorf("result = %+v", res)
	}
	if _, err := app.FindFirstRecordByData("professionals", "name", "Ana"); err == nil {
		t.Error("row with NaN cost was imported")
	}
}

func TestImportProfessionals_Excel(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tmpl, err := GenerateImportTemplate()
	if err != nil {
		t.Fatalf("GenerateImportTemplate() error = %v", err)
	}
	res, err := ImportProfessionals(app, "modelo.xlsx", bytesReader(tmpl))
	if err != nil {
		t.Fatalf("ImportProfessionals() error = %v", err)
	}
	if res.Created != 1 || res.Errors != 0 {
		t.Errorf("result = %+v", res)
	}
	rec, err := app.FindFirstRecordByData("professionals", "pid", "P-0001")
	if err != nil {
		t.Fatalf("example row not imported: %v", err)
	}
	if rec.GetString("name") != "Ana Souza" || rec.GetFloat("hourly_cost") != 120 {
		t.Errorf("imported = %s %v", rec.GetString("name"), rec.GetFloat("hourly_cost"))
	}
}

func TestGenerateImportTemplate_Headers(t *testing.T) {
	b, err := GenerateImportTemplate()
	if err != nil {
		t.Fatalf("GenerateImportTemplate() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(b))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows("Profissionais")
	want := []string{"pid", "name", "role", "level", "is_vacancy", "hourly_cost"}
	if len(rows) < 1 || len(rows[0]) != len(want) {
		t.Fatalf("header row = %v", rows)
	}
	for i, h := range want {
		if rows[0][i] != h {
			t.Errorf("header %d = %q, want %q", i, rows[0][i], h)
		}
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"sim", "TRUE", "1", "s"} {
		if v, err := parseBool(s); err != nil || !v {
			t.Errorf("parseBool(%q) = %v, %v", s, v, err)
		}
	}
	for _, s := range []string{"", "não", "false", "0"} {
		if v, err := parseBool(s); err != nil || v {
			t.Errorf("parseBool(%q) = %v, %v", s, v, err)
		}
	}
	if _, err := parseBool("talvez"); err == nil {
		t.Error("parseBool(talvez) expected error")
	}
}

func TestColumnLetters(t *testing.T) {
	cols := columnLetters(28)
	if cols[0] != "A" || cols[25] != "Z" || cols[26] != "AA" || cols[27] != "AB" {
		t.Errorf("columnLetters(28) = %v", cols)
	}
}
