package edi837

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/x12"
)

const (
	fixtureISA = "ISA*00*          *00*          *ZZ*CLINICID      *ZZ*PAYERID       *240101*1200*^*00501*000000777*0*P*:"
	fixtureGS  = "GS*HC*CLINICID*PAYERID*20240101*1200*1*X*005010X222A1"
	fixtureBHT = "BHT*0019*00*BATCH1*20240201*1200*CH"
)

func build837(body ...string) []byte {
	segs := []string{fixtureISA, fixtureGS, "ST*837*0001", fixtureBHT}
	segs = append(segs, body...)
	segs = append(segs,
		fmt.Sprintf("SE*%d*0001", len(body)+3),
		"GE*1*1",
		"IEA*1*000000777")
	return []byte(strings.Join(segs, "~") + "~")
}

func baseLoops() []string {
	return []string{
		"HL*1**20*1",
		"NM1*85*2*RIVERSIDE BEHAVIORAL HEALTH*****XX*1234567890",
		"HL*2*1*22*0",
		"NM1*IL*1*DOE*JANE****MI*MEM001",
		"NM1*PR*2*ACME HEALTH PLAN*****PI*60054",
		"CLM*PCN001*250.00***11:B:1*Y*A*Y*Y",
		"LX*1",
		"SV1*HC:99213*100.00*UN*1***1",
		"DTP*472*D8*20240103",
		"LX*2",
		"SV1*HC:90834*150.00*UN*2***1",
		"DTP*472*D8*20240104",
	}
}

func mustRead(t *testing.T, data []byte) []model.Edi837Claim {
	t.Helper()
	claims, err := NewReader().Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return claims
}

func wantStructural(t *testing.T, data []byte) {
	t.Helper()
	claims, err := NewReader().Read(data)
	if err == nil {
		t.Fatal("expected error")
	}
	if claims != nil {
		t.Errorf("claims = %v, want nil on error", claims)
	}
	if got := x12.KindOf(err); got != x12.KindStructural {
		t.Errorf("error kind = %v, want structural (err: %v)", got, err)
	}
}

func TestRead_ClaimWithServiceLines(t *testing.T) {
	claims := mustRead(t, build837(baseLoops()...))
	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(claims))
	}

	cl := claims[0]
	if cl.PayerID != "60054" {
		t.Errorf("payer id = %q, want 60054", cl.PayerID)
	}
	if want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC); !cl.BilledDate.Equal(want) {
		t.Errorf("billed date = %v, want %v", cl.BilledDate, want)
	}
	if cl.ClientName() != "DOE, JANE" {
		t.Errorf("client name = %q, want \"DOE, JANE\"", cl.ClientName())
	}
	if !money.Equal(cl.Billed, money.MustParse("250.00")) {
		t.Errorf("billed = %s, want 250.00", money.Format(cl.Billed))
	}
	if len(cl.Charges) != 2 {
		t.Fatalf("expected 2 charges, got %d", len(cl.Charges))
	}

	first := cl.Charges[0]
	if first.BillingCode != "99213" {
		t.Errorf("charge 0 billing code = %q, want 99213", first.BillingCode)
	}
	if !money.Equal(first.Billed, money.MustParse("100.00")) {
		t.Errorf("charge 0 billed = %s, want 100.00", money.Format(first.Billed))
	}
	if first.Units != 1 {
		t.Errorf("charge 0 units = %d, want 1", first.Units)
	}
	if want := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC); !first.ServiceDate.Equal(want) {
		t.Errorf("charge 0 service date = %v, want %v", first.ServiceDate, want)
	}

	second := cl.Charges[1]
	if second.BillingCode != "90834" {
		t.Errorf("charge 1 billing code = %q, want 90834", second.BillingCode)
	}
	if second.Units != 2 {
		t.Errorf("charge 1 units = %d, want 2", second.Units)
	}
}

func TestRead_MultipleSubscribersUnderOneProvider(t *testing.T) {
	body := append(baseLoops(),
		"HL*3*1*22*0",
		"NM1*IL*1*SMITH*ALEX****MI*MEM002",
		"NM1*PR*2*BLUE RIVER MUTUAL*****PI*71412",
		"CLM*PCN002*80.00***11:B:1*Y*A*Y*Y",
		"LX*1",
		"SV1*HC:90832*80.00*UN*1***1",
		"DTP*472*D8*20240105",
	)
	claims := mustRead(t, build837(body...))
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	if claims[0].ClientName() != "DOE, JANE" || claims[1].ClientName() != "SMITH, ALEX" {
		t.Errorf("claim order = %q, %q; want encounter order", claims[0].ClientName(), claims[1].ClientName())
	}
	if claims[1].PayerID != "71412" {
		t.Errorf("second claim payer id = %q, want 71412", claims[1].PayerID)
	}
}

func TestRead_MultipleClaimsInOneSubscriberLoop(t *testing.T) {
	body := append(baseLoops(),
		"CLM*PCN003*80.00***11:B:1*Y*A*Y*Y",
		"LX*1",
		"SV1*HC:90832*80.00*UN*1***1",
		"DTP*472*D8*20240106",
	)
	claims := mustRead(t, build837(body...))
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	// The second claim keeps the loop's subscriber and payer.
	if claims[1].ClientName() != "DOE, JANE" || claims[1].PayerID != "60054" {
		t.Errorf("second claim = %q payer %q, want loop subscriber and payer",
			claims[1].ClientName(), claims[1].PayerID)
	}
	if len(claims[0].Charges) != 2 || len(claims[1].Charges) != 1 {
		t.Errorf("charge split = %d and %d, want 2 and 1",
			len(claims[0].Charges), len(claims[1].Charges))
	}
}

func TestRead_IgnoresDeeperHierarchyDates(t *testing.T) {
	// A DTP outside any service line is only fatal for the 472 qualifier;
	// other qualifiers pass through untouched.
	body := append(baseLoops(), "DTP*435*D8*20240101")
	if _, err := NewReader().Read(build837(body...)); err != nil {
		t.Fatalf("Read: %v", err)
	}
}

func TestRead_StructuralErrors(t *testing.T) {
	cases := []struct {
		name string
		body []string
	}{
		{"LX before CLM", []string{
			"HL*1**20*1",
			"HL*2*1*22*0",
			"NM1*IL*1*DOE*JANE",
			"LX*1",
		}},
		{"SV1 outside LX", []string{
			"HL*1**20*1",
			"HL*2*1*22*0",
			"NM1*IL*1*DOE*JANE",
			"CLM*PCN001*100.00",
			"SV1*HC:99213*100.00*UN*1",
		}},
		{"DTP 472 outside LX", []string{
			"HL*1**20*1",
			"HL*2*1*22*0",
			"NM1*IL*1*DOE*JANE",
			"CLM*PCN001*100.00",
			"DTP*472*D8*20240103",
		}},
		{"CLM without billed amount", []string{
			"HL*1**20*1",
			"HL*2*1*22*0",
			"NM1*IL*1*DOE*JANE",
			"CLM*PCN001",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wantStructural(t, build837(tc.body...))
		})
	}
}

func TestRead_MissingBHT(t *testing.T) {
	data := []byte(strings.Join([]string{
		fixtureISA, fixtureGS,
		"ST*837*0001",
		"SE*2*0001",
		"GE*1*1",
		"IEA*1*000000777",
	}, "~") + "~")
	wantStructural(t, data)
}

func TestRead_WrongSetType(t *testing.T) {
	data := []byte(strings.Replace(string(build837(baseLoops()...)), "ST*837*0001", "ST*835*0001", 1))
	wantStructural(t, data)
}

func TestRead_RejectsMultipleEnvelopes(t *testing.T) {
	one := strings.TrimSuffix(string(build837(baseLoops()...)), "~")
	segs := strings.Split(one, "~")

	// Duplicate the transaction set inside the single group.
	var doubled []string
	doubled = append(doubled, segs[:len(segs)-2]...)
	doubled = append(doubled, strings.Replace(strings.Join(segs[2:len(segs)-2], "~"), "*0001", "*0002", 2))
	doubled = append(doubled, "GE*2*1", "IEA*1*000000777")
	wantStructural(t, []byte(strings.Join(doubled, "~")+"~"))
}
