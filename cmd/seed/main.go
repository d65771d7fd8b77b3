package main

import (
	"log"
	"os"

	"derma-triage-be/internal/model"
	"derma-triage-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func intPtr(v int) *int { return &v }

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🌱 Seeding Skin Condition Catalog (7-class skin cancer model)")

	// Class order matches the label space of the CNN
	conditions := []model.Condition{
		{
			Name:                "Queratosis Actínica",
			Abbreviation:        "akiec",
			Description:         "Lesión precancerosa causada por daño solar crónico, con superficie áspera y escamosa.",
			ShortDescriptionLLM: "Placa áspera y escamosa en zonas expuestas al sol, potencialmente precancerosa.",
			CnnPredictionIndex:  intPtr(0),
			CommonSymptoms:      "Placas ásperas, escamosas, color rojizo o marrón, en cara, orejas o manos.",
			KeyQuestions:        "¿La zona afectada recibe mucha exposición solar? ¿La lesión es áspera al tacto?",
			GeneralAdvice:       "Requiere evaluación dermatológica; el daño solar acumulado es un factor de riesgo.",
		},
		{
			Name:                "Carcinoma Basocelular",
			Abbreviation:        "bcc",
			Description:         "El cáncer de piel más frecuente, de crecimiento lento, habitualmente en zonas fotoexpuestas.",
			ShortDescriptionLLM: "Nódulo perlado o herida que no cicatriza en zonas expuestas al sol.",
			CnnPredictionIndex:  intPtr(1),
			CommonSymptoms:      "Nódulo perlado, brillante, con vasos visibles, o úlcera que sangra y no cicatriza.",
			KeyQuestions:        "¿La lesión sangra o forma costra repetidamente? ¿Cuánto tiempo lleva sin cicatrizar?",
			GeneralAdvice:       "Consultar a un dermatólogo pronto; tiene muy buen pronóstico con tratamiento temprano.",
		},
		{
			Name:                "Queratosis Benigna",
			Abbreviation:        "bkl",
			Description:         "Lesión benigna frecuente en adultos mayores, de aspecto verrugoso y color marrón.",
			ShortDescriptionLLM: "Lesión benigna verrugosa de color marrón, como 'pegada' sobre la piel.",
			CnnPredictionIndex:  intPtr(2),
			CommonSymptoms:      "Lesión elevada, de superficie cerosa o verrugosa, color marrón claro a oscuro.",
			KeyQuestions:        "¿La lesión ha cambiado de tamaño o color recientemente?",
			GeneralAdvice:       "Generalmente benigna, pero cualquier cambio reciente amerita revisión profesional.",
		},
		{
			Name:                "Dermatofibroma",
			Abbreviation:        "df",
			Description:         "Nódulo cutáneo benigno y firme, a menudo tras una picadura o pequeño traumatismo.",
			ShortDescriptionLLM: "Nódulo firme, pequeño y benigno, habitualmente en las piernas.",
			CnnPredictionIndex:  intPtr(3),
			CommonSymptoms:      "Nódulo duro, de color marrón o rosado, que se hunde al pellizcarlo.",
			KeyQuestions:        "¿Apareció después de una picadura o golpe? ¿Duele al presionarlo?",
			GeneralAdvice:       "Benigno en la gran mayoría de los casos; consultar si crece o cambia.",
		},
		{
			Name:                "Melanoma",
			Abbreviation:        "mel",
			Description:         "El cáncer de piel más agresivo, originado en los melanocitos. Detectarlo temprano es crítico.",
			ShortDescriptionLLM: "Lesión pigmentada asimétrica, de bordes irregulares y colores variados; urgencia dermatológica.",
			CnnPredictionIndex:  intPtr(4),
			CommonSymptoms:      "Mancha o lunar asimétrico, bordes irregulares, varios colores, diámetro mayor a 6mm, evolución reciente.",
			KeyQuestions:        "¿El lunar ha cambiado de forma, color o tamaño? ¿Sangra o pica?",
			GeneralAdvice:       "Acudir al dermatólogo con urgencia; el diagnóstico temprano salva vidas.",
		},
		{
			Name:                "Nevus Melanocítico",
			Abbreviation:        "nv",
			Description:         "Lunar común benigno formado por acumulación de melanocitos.",
			ShortDescriptionLLM: "Lunar común benigno, simétrico, de color y borde uniformes.",
			CnnPredictionIndex:  intPtr(5),
			CommonSymptoms:      "Mancha o pápula pigmentada, simétrica, de color uniforme y borde regular.",
			KeyQuestions:        "¿El lunar se mantiene estable en forma y color?",
			GeneralAdvice:       "Vigilar cambios con la regla ABCDE; los lunares estables no suelen requerir tratamiento.",
		},
		{
			Name:                "Lesión Vascular",
			Abbreviation:        "vasc",
			Description:         "Grupo de lesiones benignas de origen vascular, como angiomas y hemangiomas.",
			ShortDescriptionLLM: "Lesión rojiza o violácea de origen vascular, generalmente benigna.",
			CnnPredictionIndex:  intPtr(6),
			CommonSymptoms:      "Mancha o pápula de color rojo cereza a violáceo, que puede palidecer a la presión.",
			KeyQuestions:        "¿La lesión cambia de color al presionarla? ¿Sangra con facilidad?",
			GeneralAdvice:       "Habitualmente benignas; consultar si sangran o crecen rápidamente.",
		},
	}

	for _, c := range conditions {
		var existing model.Condition
		if err := db.Where("name = ?", c.Name).First(&existing).Error; err == nil {
			color.Yellow("  Condition '%s' already exists, skipping...", c.Name)
			continue
		}

		if err := db.Create(&c).Error; err != nil {
			color.Red("  Error creating condition '%s': %v", c.Name, err)
		} else {
			color.Green("  Created condition: %s (%s, index %d)", c.Name, c.Abbreviation, *c.CnnPredictionIndex)
		}
	}

	color.Cyan("✅ Condition seeding completed!")
}
