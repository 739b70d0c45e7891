package registry

import (
	"github.com/lab-interpretation-server/internal/domain"
)

// f64 returns a pointer to v, for optional critical thresholds.
func f64(v float64) *float64 { return &v }

// defaultDefinitions returns the built-in test table. Reference ranges follow
// standard clinical guidelines and may vary slightly between laboratories;
// critical thresholds are deliberately conservative. Sex-specific ranges are
// defined where clinically relevant.
func defaultDefinitions() []*domain.TestDefinition {
	return []*domain.TestDefinition{

		// Hematology

		{
			Code:        "HB",
			Name:        "Hemoglobin",
			Category:    "Hematology",
			Unit:        "g/dL",
			SexSpecific: true,
			ReferenceRanges: map[string]domain.ReferenceRange{
				"male":   {Low: 13.5, High: 17.5},
				"female": {Low: 12.0, High: 15.5},
			},
			CriticalLow:  f64(7.0),  // severe anemia
			CriticalHigh: f64(20.0), // severe polycythemia
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "Hemoglobin is lower than the typical range. Hemoglobin is the protein in red blood cells that carries oxygen throughout your body.",
					WhyItMatters: "Lower levels may be associated with tiredness, weakness, or shortness of breath.",
					NextSteps:    "Consider discussing this result with a healthcare professional to understand possible causes.",
				},
				domain.TemplateNormal: {
					Explanation:  "Hemoglobin is within the typical healthy range. This protein helps carry oxygen in your blood.",
					WhyItMatters: "Normal hemoglobin suggests your blood is carrying oxygen effectively.",
					NextSteps:    "No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "Hemoglobin is higher than the typical range.",
					WhyItMatters: "Elevated levels may warrant further investigation.",
					NextSteps:    "Consider discussing this result with a healthcare professional.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "Hemoglobin is significantly below normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "Hemoglobin is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		{
			Code:        "PCV",
			Name:        "Packed Cell Volume (Hematocrit)",
			Category:    "Hematology",
			Unit:        "%",
			SexSpecific: true,
			ReferenceRanges: map[string]domain.ReferenceRange{
				"male":   {Low: 40.0, High: 54.0},
				"female": {Low: 36.0, High: 48.0},
			},
			CriticalLow:  f64(20.0),
			CriticalHigh: f64(60.0),
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "Packed Cell Volume (PCV) is lower than the typical range. PCV measures the percentage of your blood made up of red blood cells.",
					WhyItMatters: "Lower values may indicate reduced oxygen-carrying capacity.",
					NextSteps:    "Consider discussing this result with a healthcare professional.",
				},
				domain.TemplateNormal: {
					Explanation:  "Packed Cell Volume (PCV) is within the typical healthy range.",
					WhyItMatters: "Normal PCV suggests a healthy proportion of red blood cells in your blood.",
					NextSteps:    "No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "Packed Cell Volume (PCV) is higher than the typical range.",
					WhyItMatters: "Elevated values may warrant further evaluation.",
					NextSteps:    "Consider discussing this result with a healthcare professional.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "Packed Cell Volume is significantly below normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "Packed Cell Volume is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		{
			Code:        "WBC",
			Name:        "White Blood Cell Count",
			Category:    "Hematology",
			Unit:        "×10³/µL",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 4.0, High: 11.0},
			},
			CriticalLow:  f64(2.0),  // severe leukopenia
			CriticalHigh: f64(30.0), // severe leukocytosis
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "White Blood Cell count is lower than the typical range. White blood cells help your body fight infections.",
					WhyItMatters: "Lower counts may affect your body's ability to fight infections.",
					NextSteps:    "Consider discussing this result with a healthcare professional.",
				},
				domain.TemplateNormal: {
					Explanation:  "White Blood Cell count is within the typical healthy range.",
					WhyItMatters: "Normal WBC count suggests your immune system has an appropriate number of infection-fighting cells.",
					NextSteps:    "No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "White Blood Cell count is higher than the typical range.",
					WhyItMatters: "Elevated counts may indicate your body is responding to various conditions.",
					NextSteps:    "Consider discussing this result with a healthcare professional.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "White Blood Cell count is significantly below normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "White Blood Cell count is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		{
			Code:        "PLT",
			Name:        "Platelet Count",
			Category:    "Hematology",
			Unit:        "×10³/µL",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 150.0, High: 400.0},
			},
			CriticalLow:  f64(50.0),   // bleeding risk
			CriticalHigh: f64(1000.0), // clotting risk
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "Platelet count is lower than the typical range. Platelets help your blood clot.",
					WhyItMatters: "Lower platelet counts may affect blood clotting ability.",
					NextSteps:    "Consider discussing this result with a healthcare professional.",
				},
				domain.TemplateNormal: {
					Explanation:  "Platelet count is within the typical healthy range.",
					WhyItMatters: "Normal platelet count suggests adequate blood clotting function.",
					NextSteps:    "No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "Platelet count is higher than the typical range.",
					WhyItMatters: "Elevated platelet counts may warrant further evaluation.",
					NextSteps:    "Consider discussing this result with a healthcare professional.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "Platelet count is significantly below normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "Platelet count is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		// Metabolic

		{
			Code:        "FBG",
			Name:        "Fasting Blood Glucose",
			Category:    "Metabolic",
			Unit:        "mg/dL",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 70.0, High: 99.0},
			},
			BorderlineRange: &domain.ReferenceRange{Low: 100.0, High: 125.0}, // prediabetes band
			CriticalLow:     f64(54.0),                                       // severe hypoglycemia
			CriticalHigh:    f64(400.0),                                      // severe hyperglycemia
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "Fasting blood glucose is lower than the typical range. Glucose (sugar) is your body's main source of energy.",
					WhyItMatters: "Low blood sugar may cause symptoms like shakiness, sweating, or confusion.",
					NextSteps:    "If you experience symptoms, speak with a healthcare professional about blood sugar management.",
				},
				domain.TemplateNormal: {
					Explanation:  "Fasting blood glucose is within the typical healthy range.",
					WhyItMatters: "Normal fasting glucose suggests your body is managing blood sugar well.",
					NextSteps:    "Maintain healthy lifestyle habits. No immediate action needed for this test.",
				},
				domain.TemplateBorderline: {
					Explanation:  "Fasting blood glucose is in the borderline range (100-125 mg/dL).",
					WhyItMatters: "This range may indicate prediabetes, which means higher risk for developing diabetes.",
					NextSteps:    "Discuss this result with a healthcare professional. Lifestyle changes may be beneficial.",
				},
				domain.TemplateHigh: {
					Explanation:  "Fasting blood glucose is higher than the typical range.",
					WhyItMatters: "Elevated fasting glucose may indicate diabetes and requires professional evaluation.",
					NextSteps:    "Consult with a healthcare professional for further assessment and guidance.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "Blood glucose is significantly below normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "Blood glucose is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		{
			Code:        "HBA1C",
			Name:        "Hemoglobin A1c",
			Category:    "Metabolic",
			Unit:        "%",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 4.0, High: 5.6},
			},
			BorderlineRange: &domain.ReferenceRange{Low: 5.7, High: 6.4}, // prediabetes band
			CriticalHigh:    f64(10.0),                                   // very poor control; no critical low
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "HbA1c is lower than typical. This test measures your average blood sugar over the past 2-3 months.",
					WhyItMatters: "Very low values are uncommon and may warrant discussion.",
					NextSteps:    "If you have questions about this result, speak with a healthcare professional.",
				},
				domain.TemplateNormal: {
					Explanation:  "HbA1c is within the typical healthy range. This test reflects your average blood sugar over the past 2-3 months.",
					WhyItMatters: "Normal HbA1c suggests good long-term blood sugar control.",
					NextSteps:    "Continue healthy lifestyle habits. No immediate action needed for this test.",
				},
				domain.TemplateBorderline: {
					Explanation:  "HbA1c is in the borderline range (5.7-6.4%).",
					WhyItMatters: "This range may indicate prediabetes, meaning higher risk for developing diabetes.",
					NextSteps:    "Discuss this result with a healthcare professional. Lifestyle modifications may help.",
				},
				domain.TemplateHigh: {
					Explanation:  "HbA1c is higher than the typical range.",
					WhyItMatters: "Elevated HbA1c indicates higher average blood sugar over recent months.",
					NextSteps:    "Consult with a healthcare professional for evaluation and blood sugar management strategies.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "HbA1c is unusually low.",
					WhyItMatters: "This may require further evaluation.",
					NextSteps:    "Discuss this result with a healthcare professional.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "HbA1c is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention for blood sugar management.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		// Renal

		{
			Code:        "CREAT",
			Name:        "Creatinine",
			Category:    "Renal",
			Unit:        "mg/dL",
			SexSpecific: true,
			ReferenceRanges: map[string]domain.ReferenceRange{
				"male":   {Low: 0.7, High: 1.3},
				"female": {Low: 0.6, High: 1.1},
			},
			CriticalHigh: f64(5.0), // severe kidney impairment; low creatinine rarely critical
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "Creatinine is lower than the typical range. Creatinine is a waste product filtered by your kidneys.",
					WhyItMatters: "Lower levels are usually not concerning but may relate to muscle mass.",
					NextSteps:    "If you have questions about this result, speak with a healthcare professional.",
				},
				domain.TemplateNormal: {
					Explanation:  "Creatinine is within the typical healthy range. Creatinine is a waste product your kidneys filter from your blood.",
					WhyItMatters: "Normal creatinine suggests your kidneys are filtering waste effectively.",
					NextSteps:    "No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "Creatinine is higher than the typical range.",
					WhyItMatters: "Elevated creatinine may indicate reduced kidney function and requires evaluation.",
					NextSteps:    "Consult with a healthcare professional for kidney function assessment.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "Creatinine is unusually low.",
					WhyItMatters: "This may warrant discussion with a healthcare provider.",
					NextSteps:    "Speak with a healthcare professional if you have concerns.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "Creatinine is significantly above normal range.",
					WhyItMatters: "This indicates severely reduced kidney function and requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		{
			Code:        "UREA",
			Name:        "Blood Urea Nitrogen (BUN)",
			Category:    "Renal",
			Unit:        "mg/dL",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 7.0, High: 20.0},
			},
			CriticalHigh: f64(100.0), // severe kidney impairment; low BUN rarely critical
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "Blood urea is lower than the typical range. Urea is a waste product processed by your kidneys.",
					WhyItMatters: "Low levels are usually not concerning but may relate to diet or hydration.",
					NextSteps:    "If you have questions about this result, speak with a healthcare professional.",
				},
				domain.TemplateNormal: {
					Explanation:  "Blood urea is within the typical healthy range. Urea is a waste product your kidneys filter from your blood.",
					WhyItMatters: "Normal urea suggests your kidneys are processing waste appropriately.",
					NextSteps:    "No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "Blood urea is higher than the typical range.",
					WhyItMatters: "Elevated urea may indicate kidney function changes, dehydration, or other factors requiring evaluation.",
					NextSteps:    "Consult with a healthcare professional for further assessment.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "Blood urea is unusually low.",
					WhyItMatters: "This may warrant discussion with a healthcare provider.",
					NextSteps:    "Speak with a healthcare professional if you have concerns.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "Blood urea is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		// Liver

		{
			Code:        "ALT",
			Name:        "Alanine Aminotransferase (ALT)",
			Category:    "Liver",
			Unit:        "U/L",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 7.0, High: 56.0},
			},
			CriticalHigh: f64(1000.0), // severe liver injury; low ALT not concerning
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "ALT is lower than the typical range. ALT is an enzyme found mainly in the liver.",
					WhyItMatters: "Low ALT is generally not concerning.",
					NextSteps:    "No action typically needed for low ALT.",
				},
				domain.TemplateNormal: {
					Explanation:  "ALT is within the typical healthy range. ALT is an enzyme that helps assess liver health.",
					WhyItMatters: "Normal ALT suggests your liver is functioning well.",
					NextSteps:    "No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "ALT is higher than the typical range.",
					WhyItMatters: "Elevated ALT may indicate liver inflammation or injury and requires evaluation.",
					NextSteps:    "Consult with a healthcare professional for liver function assessment.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "ALT is unusually low.",
					WhyItMatters: "This is typically not concerning.",
					NextSteps:    "No immediate action typically needed.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "ALT is significantly above normal range.",
					WhyItMatters: "This indicates significant liver stress and requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		{
			Code:        "AST",
			Name:        "Aspartate Aminotransferase (AST)",
			Category:    "Liver",
			Unit:        "U/L",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 10.0, High: 40.0},
			},
			CriticalHigh: f64(1000.0),
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "AST is lower than the typical range. AST is an enzyme found in the liver and other tissues.",
					WhyItMatters: "Low AST is generally not concerning.",
					NextSteps:    "No action typically needed for low AST.",
				},
				domain.TemplateNormal: {
					Explanation:  "AST is within the typical healthy range. AST is an enzyme that helps assess liver and tissue health.",
					WhyItMatters: "Normal AST is a positive indicator of liver health.",
					NextSteps:    "No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "AST is higher than the typical range.",
					WhyItMatters: "Elevated AST may indicate liver or tissue stress and requires evaluation.",
					NextSteps:    "Consult with a healthcare professional for further assessment.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "AST is unusually low.",
					WhyItMatters: "This is typically not concerning.",
					NextSteps:    "No immediate action typically needed.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "AST is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		{
			Code:        "TBIL",
			Name:        "Total Bilirubin",
			Category:    "Liver",
			Unit:        "mg/dL",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 0.1, High: 1.2},
			},
			CriticalHigh: f64(12.0), // severe jaundice
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "Total bilirubin is lower than the typical range. Bilirubin is a yellow pigment produced when red blood cells break down.",
					WhyItMatters: "Low bilirubin is generally not concerning.",
					NextSteps:    "No action typically needed for low bilirubin.",
				},
				domain.TemplateNormal: {
					Explanation:  "Total bilirubin is within the typical healthy range. Bilirubin is processed by your liver.",
					WhyItMatters: "Normal bilirubin suggests your liver is processing this substance appropriately.",
					NextSteps:    "No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "Total bilirubin is higher than the typical range.",
					WhyItMatters: "Elevated bilirubin may cause yellowing of skin or eyes and requires evaluation.",
					NextSteps:    "Consult with a healthcare professional for liver function assessment.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "Total bilirubin is unusually low.",
					WhyItMatters: "This is typically not concerning.",
					NextSteps:    "No immediate action typically needed.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "Total bilirubin is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		// Lipids

		{
			Code:        "TCHOL",
			Name:        "Total Cholesterol",
			Category:    "Lipids",
			Unit:        "mg/dL",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 125.0, High: 200.0},
			},
			BorderlineRange: &domain.ReferenceRange{Low: 200.0, High: 239.0},
			CriticalHigh:    f64(400.0),
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "Total cholesterol is lower than the typical range. Cholesterol is a fatty substance in your blood.",
					WhyItMatters: "While high cholesterol is more commonly discussed, very low levels may warrant discussion.",
					NextSteps:    "If you have questions about this result, speak with a healthcare professional.",
				},
				domain.TemplateNormal: {
					Explanation:  "Total cholesterol is within the desirable range. Cholesterol is a fatty substance your body needs in healthy amounts.",
					WhyItMatters: "Desirable cholesterol levels support heart health.",
					NextSteps:    "Maintain heart-healthy lifestyle habits. No immediate action needed for this test.",
				},
				domain.TemplateBorderline: {
					Explanation:  "Total cholesterol is in the borderline high range (200-239 mg/dL).",
					WhyItMatters: "This level suggests increased cardiovascular risk and lifestyle changes may be beneficial.",
					NextSteps:    "Discuss this result with a healthcare professional about heart health strategies.",
				},
				domain.TemplateHigh: {
					Explanation:  "Total cholesterol is higher than the desirable range.",
					WhyItMatters: "High cholesterol increases cardiovascular risk and requires professional evaluation.",
					NextSteps:    "Consult with a healthcare professional about cholesterol management.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "Total cholesterol is unusually low.",
					WhyItMatters: "This may warrant discussion with a healthcare provider.",
					NextSteps:    "Speak with a healthcare professional if you have concerns.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "Total cholesterol is significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention for cardiovascular risk management.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		{
			Code:        "LDL",
			Name:        "LDL Cholesterol",
			Category:    "Lipids",
			Unit:        "mg/dL",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 0.0, High: 100.0},
			},
			BorderlineRange: &domain.ReferenceRange{Low: 130.0, High: 159.0},
			CriticalHigh:    f64(250.0),
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "LDL cholesterol is low. LDL is often called 'bad cholesterol' because high levels can increase heart disease risk.",
					WhyItMatters: "Low LDL cholesterol is generally considered beneficial for heart health.",
					NextSteps:    "Continue heart-healthy lifestyle habits.",
				},
				domain.TemplateNormal: {
					Explanation:  "LDL cholesterol is at optimal levels. LDL is sometimes called 'bad cholesterol' when elevated.",
					WhyItMatters: "Optimal LDL cholesterol supports cardiovascular health.",
					NextSteps:    "Maintain heart-healthy lifestyle habits. No immediate action needed for this test.",
				},
				domain.TemplateBorderline: {
					Explanation:  "LDL cholesterol is in the borderline high range (130-159 mg/dL).",
					WhyItMatters: "This level suggests increased cardiovascular risk.",
					NextSteps:    "Discuss this result with a healthcare professional about heart health strategies.",
				},
				domain.TemplateHigh: {
					Explanation:  "LDL cholesterol is higher than optimal levels.",
					WhyItMatters: "High LDL increases cardiovascular risk and may require intervention.",
					NextSteps:    "Consult with a healthcare professional about LDL management strategies.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "LDL cholesterol is very low.",
					WhyItMatters: "Very low LDL is generally beneficial for heart health.",
					NextSteps:    "Continue current health practices.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "LDL cholesterol is significantly above optimal range.",
					WhyItMatters: "This requires prompt medical attention for cardiovascular risk management.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},

		{
			Code:        "HDL",
			Name:        "HDL Cholesterol",
			Category:    "Lipids",
			Unit:        "mg/dL",
			SexSpecific: true,
			ReferenceRanges: map[string]domain.ReferenceRange{
				"male":   {Low: 40.0, High: 200.0}, // >40 protective
				"female": {Low: 50.0, High: 200.0}, // >50 protective
			},
			CriticalLow: f64(20.0), // very high cardiovascular risk; high HDL is protective
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "HDL cholesterol is lower than desired. HDL is often called 'good cholesterol' because it helps remove other cholesterol from your blood.",
					WhyItMatters: "Low HDL cholesterol increases cardiovascular risk.",
					NextSteps:    "Consult with a healthcare professional about strategies to raise HDL cholesterol.",
				},
				domain.TemplateNormal: {
					Explanation:  "HDL cholesterol is within the protective range. HDL is called 'good cholesterol' because it helps protect your heart.",
					WhyItMatters: "Adequate HDL cholesterol is protective for cardiovascular health.",
					NextSteps:    "Maintain heart-healthy lifestyle habits. No immediate action needed for this test.",
				},
				domain.TemplateHigh: {
					Explanation:  "HDL cholesterol is higher than typical. HDL is the 'good cholesterol' that protects your heart.",
					WhyItMatters: "High HDL is generally considered protective for heart health.",
					NextSteps:    "Continue heart-healthy lifestyle habits.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "HDL cholesterol is significantly below protective levels.",
					WhyItMatters: "This indicates very high cardiovascular risk and requires prompt attention.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "HDL cholesterol is very high.",
					WhyItMatters: "High HDL is typically protective for heart health.",
					NextSteps:    "Continue current health practices.",
				},
			},
		},

		{
			Code:        "TRIG",
			Name:        "Triglycerides",
			Category:    "Lipids",
			Unit:        "mg/dL",
			SexSpecific: false,
			ReferenceRanges: map[string]domain.ReferenceRange{
				domain.DefaultRangeKey: {Low: 0.0, High: 150.0},
			},
			BorderlineRange: &domain.ReferenceRange{Low: 150.0, High: 199.0},
			CriticalHigh:    f64(500.0), // pancreatitis risk
			Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
				domain.TemplateLow: {
					Explanation:  "Triglycerides are low. Triglycerides are a type of fat in your blood.",
					WhyItMatters: "Low triglycerides are generally not concerning and may be beneficial.",
					NextSteps:    "Continue healthy lifestyle habits.",
				},
				domain.TemplateNormal: {
					Explanation:  "Triglycerides are within the normal range. Triglycerides are a type of fat stored in your blood.",
					WhyItMatters: "Normal triglycerides support overall metabolic and heart health.",
					NextSteps:    "Maintain heart-healthy lifestyle habits. No immediate action needed for this test.",
				},
				domain.TemplateBorderline: {
					Explanation:  "Triglycerides are in the borderline high range (150-199 mg/dL).",
					WhyItMatters: "This level suggests increased cardiovascular risk and metabolic concerns.",
					NextSteps:    "Discuss this result with a healthcare professional about lifestyle modifications.",
				},
				domain.TemplateHigh: {
					Explanation:  "Triglycerides are higher than the normal range.",
					WhyItMatters: "High triglycerides increase cardiovascular and metabolic risks.",
					NextSteps:    "Consult with a healthcare professional about triglyceride management.",
				},
				domain.TemplateCriticalLow: {
					Explanation:  "Triglycerides are very low.",
					WhyItMatters: "Very low triglycerides are typically not concerning.",
					NextSteps:    "Continue current health practices.",
				},
				domain.TemplateCriticalHigh: {
					Explanation:  "Triglycerides are significantly above normal range.",
					WhyItMatters: "This requires prompt medical attention due to risk of pancreatitis and other complications.",
					NextSteps:    "Seek medical attention promptly. Contact your healthcare provider.",
				},
			},
		},
	}
}
