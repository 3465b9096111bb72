/*-------------------------------------------------------------------------
 *
 * calculator.go
 *    Labor calculation engine
 *
 * Vacation, severance, and overtime math under the CLT, with the 2024
 * INSS and IRRF progressive tables. Every result carries the
 * component breakdown, the worked steps, and the legal basis so the
 * assistant can show its work.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/hr/calculator.go
 *
 *-------------------------------------------------------------------------
 */

package hr

import (
	"context"
	"fmt"
	"math"
	"strings"
)

/* 2024 INSS progressive brackets: upper limit, rate */
var inssBrackets = []struct {
	limit float64
	rate  float64
}{
	{1412.00, 0.075},
	{2666.68, 0.09},
	{4000.03, 0.12},
	{7786.02, 0.14},
}

/* 2024 IRRF brackets: upper limit, rate, deduction */
var irrfBrackets = []struct {
	limit     float64
	rate      float64
	deduction float64
}{
	{2259.20, 0, 0},
	{2826.65, 0.075, 169.44},
	{3751.05, 0.15, 381.44},
	{4664.68, 0.225, 662.77},
	{math.MaxFloat64, 0.275, 896.00},
}

/* Calculator implements the labor calculation tools */
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

/* CalculateVacation computes vacation pay with the constitutional
 * third, the optional abono pecuniário, and INSS/IRRF deductions */
func (c *Calculator) CalculateVacation(ctx context.Context, salary float64, days int, sellDays bool) (map[string]interface{}, error) {
	if salary <= 0 {
		return nil, fmt.Errorf("salário deve ser maior que zero")
	}
	if days < 1 || days > 30 {
		return nil, fmt.Errorf("dias de férias devem estar entre 1 e 30")
	}

	var steps strings.Builder
	details := map[string]interface{}{}

	dailyRate := salary / 30
	vacationBase := round2(dailyRate * float64(days))
	details["salario_base"] = salary
	details["valor_diario"] = round2(dailyRate)
	details["dias"] = days
	details["valor_ferias"] = vacationBase
	fmt.Fprintf(&steps, "1. Valor diário: R$ %.2f / 30 = R$ %.2f\n", salary, dailyRate)
	fmt.Fprintf(&steps, "2. Férias (%d dias): R$ %.2f x %d = R$ %.2f\n", days, dailyRate, days, vacationBase)

	oneThird := round2(vacationBase / 3)
	details["terco_constitucional"] = oneThird
	fmt.Fprintf(&steps, "3. 1/3 constitucional: R$ %.2f / 3 = R$ %.2f\n", vacationBase, oneThird)

	totalGross := vacationBase + oneThird

	if sellDays {
		abonoDays := days / 3
		if abonoDays > 10 {
			abonoDays = 10
		}
		abonoValue := round2(dailyRate * float64(abonoDays))
		abonoThird := round2(abonoValue / 3)
		details["abono_dias"] = abonoDays
		details["abono_valor"] = abonoValue
		details["abono_terco"] = abonoThird
		totalGross += abonoValue + abonoThird
		fmt.Fprintf(&steps, "4. Abono pecuniário (%d dias): R$ %.2f\n", abonoDays, abonoValue)
		fmt.Fprintf(&steps, "5. 1/3 do abono: R$ %.2f\n", abonoThird)
	}

	totalGross = round2(totalGross)
	details["total_bruto"] = totalGross
	fmt.Fprintf(&steps, "6. Total bruto: R$ %.2f\n", totalGross)

	/* The abono is exempt from INSS */
	inssBase := vacationBase + oneThird
	inss := calculateINSS(inssBase)
	details["base_inss"] = round2(inssBase)
	details["inss"] = inss
	fmt.Fprintf(&steps, "7. INSS (base R$ %.2f): R$ %.2f\n", inssBase, inss)

	irrfBase := inssBase - inss
	irrf := calculateIRRF(irrfBase)
	details["base_irrf"] = round2(irrfBase)
	details["irrf"] = irrf
	fmt.Fprintf(&steps, "8. IRRF (base R$ %.2f): R$ %.2f\n", irrfBase, irrf)

	totalNet := round2(totalGross - inss - irrf)
	details["total_liquido"] = totalNet
	fmt.Fprintf(&steps, "9. Total líquido: R$ %.2f - R$ %.2f - R$ %.2f = R$ %.2f\n", totalGross, inss, irrf, totalNet)

	return map[string]interface{}{
		"tipo":          "FERIAS",
		"valor_bruto":   totalGross,
		"valor_liquido": totalNet,
		"detalhes":      details,
		"passos":        steps.String(),
		"base_legal":    "Art. 129 a 145 da CLT, Art. 7º, XVII da CF/88",
	}, nil
}

/* CalculateTermination computes severance from tenure in months. The
 * FGTS penalty needs the fund balance, which is not known here, so
 * it is reported as a note instead of a value. */
func (c *Calculator) CalculateTermination(ctx context.Context, terminationType string, salary float64, tenureMonths int) (map[string]interface{}, error) {
	if salary <= 0 {
		return nil, fmt.Errorf("salário deve ser maior que zero")
	}
	if tenureMonths < 0 {
		return nil, fmt.Errorf("tempo de casa inválido")
	}
	switch terminationType {
	case "SEM_JUSTA_CAUSA", "JUSTA_CAUSA", "PEDIDO_DEMISSAO", "ACORDO":
	default:
		return nil, fmt.Errorf("tipo de rescisão desconhecido: %s", terminationType)
	}

	var steps strings.Builder
	details := map[string]interface{}{
		"salario_base":      salary,
		"tipo_rescisao":     terminationType,
		"meses_trabalhados": tenureMonths,
	}

	dailyRate := salary / 30
	totalGross := 0.0
	step := 1

	/* 13º proporcional over the months worked in the final year */
	monthsFor13 := tenureMonths % 12
	if monthsFor13 == 0 && tenureMonths > 0 {
		monthsFor13 = 12
	}
	if terminationType != "JUSTA_CAUSA" && monthsFor13 > 0 {
		thirteenth := round2(salary * float64(monthsFor13) / 12)
		details["decimo_terceiro_proporcional"] = thirteenth
		details["meses_13"] = monthsFor13
		totalGross += thirteenth
		fmt.Fprintf(&steps, "%d. 13º proporcional (%d/12): R$ %.2f\n", step, monthsFor13, thirteenth)
		step++
	}

	/* Férias proporcionais + 1/3 */
	if terminationType != "JUSTA_CAUSA" {
		acquisitionMonths := tenureMonths % 12
		if acquisitionMonths == 0 && tenureMonths > 0 {
			acquisitionMonths = 12
		}
		proportionalVacation := round2(salary * float64(acquisitionMonths) / 12)
		vacationThird := round2(proportionalVacation / 3)
		details["ferias_proporcionais"] = proportionalVacation
		details["terco_ferias"] = vacationThird
		details["meses_ferias"] = acquisitionMonths
		totalGross += proportionalVacation + vacationThird
		fmt.Fprintf(&steps, "%d. Férias proporcionais (%d/12) + 1/3: R$ %.2f + R$ %.2f\n",
			step, acquisitionMonths, proportionalVacation, vacationThird)
		step++
	}

	/* Aviso prévio indenizado: 30 days plus 3 per completed year, capped at 90 */
	if terminationType == "SEM_JUSTA_CAUSA" || terminationType == "ACORDO" {
		noticeDays := 30 + (tenureMonths/12)*3
		if noticeDays > 90 {
			noticeDays = 90
		}
		if terminationType == "ACORDO" {
			/* Art. 484-A halves the indemnified notice */
			noticeDays = noticeDays / 2
		}
		notice := round2(dailyRate * float64(noticeDays))
		details["aviso_previo_dias"] = noticeDays
		details["aviso_previo_valor"] = notice
		totalGross += notice
		fmt.Fprintf(&steps, "%d. Aviso prévio indenizado (%d dias): R$ %.2f\n", step, noticeDays, notice)
		step++
	}

	totalGross = round2(totalGross)
	details["total_bruto"] = totalGross
	fmt.Fprintf(&steps, "%d. Total bruto: R$ %.2f\n", step, totalGross)

	inss := calculateINSS(salary)
	irrf := calculateIRRF(salary - inss)
	details["inss"] = inss
	details["irrf"] = irrf
	fmt.Fprintf(&steps, "\nDeduções estimadas:\n- INSS: R$ %.2f\n- IRRF: R$ %.2f\n", inss, irrf)

	totalNet := round2(totalGross - inss - irrf)
	details["total_liquido"] = totalNet
	fmt.Fprintf(&steps, "\nTotal líquido estimado: R$ %.2f\n", totalNet)

	var legalBasis string
	var notes []string
	switch terminationType {
	case "SEM_JUSTA_CAUSA":
		legalBasis = "Art. 477, 478, 487 da CLT"
		notes = append(notes, "Multa de 40% do FGTS não incluída: depende do saldo do fundo.")
	case "JUSTA_CAUSA":
		legalBasis = "Art. 482 da CLT"
	case "PEDIDO_DEMISSAO":
		legalBasis = "Art. 477, 487 da CLT"
	case "ACORDO":
		legalBasis = "Art. 484-A da CLT (Reforma Trabalhista)"
		notes = append(notes, "Multa de 20% do FGTS e saque de 80% não incluídos: dependem do saldo do fundo.")
	}

	result := map[string]interface{}{
		"tipo":          "RESCISAO",
		"valor_bruto":   totalGross,
		"valor_liquido": totalNet,
		"detalhes":      details,
		"passos":        steps.String(),
		"base_legal":    legalBasis,
	}
	if len(notes) > 0 {
		result["observacoes"] = notes
	}
	return result, nil
}

/* CalculateOvertime computes overtime pay at the given percent over
 * the hourly rate derived from a 220-hour month */
func (c *Calculator) CalculateOvertime(ctx context.Context, salary float64, hours float64, percent float64) (map[string]interface{}, error) {
	if salary <= 0 {
		return nil, fmt.Errorf("salário deve ser maior que zero")
	}
	if hours < 0 {
		return nil, fmt.Errorf("quantidade de horas inválida")
	}
	if percent <= 0 {
		percent = 50
	}

	var steps strings.Builder

	hourlyRate := salary / 220
	overtimeRate := hourlyRate * (1 + percent/100)
	total := round2(overtimeRate * hours)

	fmt.Fprintf(&steps, "1. Valor da hora: R$ %.2f / 220 = R$ %.2f\n", salary, hourlyRate)
	fmt.Fprintf(&steps, "2. Hora extra (%.0f%%): R$ %.2f x %.2f = R$ %.2f\n", percent, hourlyRate, 1+percent/100, overtimeRate)
	fmt.Fprintf(&steps, "3. Total (%.2f horas): R$ %.2f x %.2f = R$ %.2f\n", hours, overtimeRate, hours, total)

	return map[string]interface{}{
		"tipo":        "HORAS_EXTRAS",
		"valor_bruto": total,
		"detalhes": map[string]interface{}{
			"valor_hora":       round2(hourlyRate),
			"valor_hora_extra": round2(overtimeRate),
			"horas":            hours,
			"percentual":       percent,
		},
		"passos":     steps.String(),
		"base_legal": "Art. 59, 73 da CLT, Súmula 264 do TST",
	}, nil
}

/* calculateINSS applies the progressive bracket table */
func calculateINSS(salary float64) float64 {
	contribution := 0.0
	previousLimit := 0.0

	for _, bracket := range inssBrackets {
		if salary <= previousLimit {
			break
		}
		taxable := math.Min(salary, bracket.limit) - previousLimit
		if taxable > 0 {
			contribution += taxable * bracket.rate
		}
		previousLimit = bracket.limit
	}

	return round2(contribution)
}

/* calculateIRRF applies the bracket rate minus its fixed deduction */
func calculateIRRF(base float64) float64 {
	if base <= irrfBrackets[0].limit {
		return 0
	}
	for _, bracket := range irrfBrackets {
		if base <= bracket.limit {
			return round2(base*bracket.rate - bracket.deduction)
		}
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
