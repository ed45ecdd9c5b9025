package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supscore/internal/config"
	"supscore/internal/model"
	"supscore/internal/repository"
	"supscore/internal/service"
)

// Seeds the reference CSB supervision checklist so a fresh deployment
// has something to supervise with.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg := config.Load()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.MongoDatabase)
	contentSvc := service.NewContentService(repository.NewAssessmentRepo(db), repository.NewTemplateRepo(db))

	assessment := csbChecklist()
	existing, err := contentSvc.GetAssessment(ctx, assessment.ID)
	if err != nil {
		log.Fatal("Failed to check existing checklist:", err)
	}
	if existing != nil {
		log.Printf("Checklist %s already present, skipping", assessment.ID)
		return
	}

	if err := contentSvc.CreateAssessment(ctx, assessment); err != nil {
		log.Fatal("Failed to seed checklist:", err)
	}
	log.Printf("Seeded checklist %s (%s)", assessment.ID, assessment.Title)
}

func csbChecklist() *model.Assessment {
	return &model.Assessment{
		ID:          "checklist_csb_2024",
		Title:       "Supervision intégrée CSB",
		Description: "Grille de supervision trimestrielle des centres de santé de base",
		Departement: "sante_publique",
		Niveau:      "CSB2",
		Version:     "1.0",
		Sections: []model.Section{
			{
				ID:     "hygiene",
				Title:  "Hygiène et salubrité",
				Weight: 1.0,
				Questions: []model.Question{
					{
						ID:       "hyg_eau",
						Type:     model.QuestionTypeBoolean,
						Text:     "Point d'eau fonctionnel disponible",
						MaxScore: 1,
						Required: true,
					},
					{
						ID:       "hyg_dechets",
						Type:     model.QuestionTypeBoolean,
						Text:     "Tri des déchets médicaux respecté",
						MaxScore: 1,
						Required: true,
					},
					{
						ID:       "hyg_latrines",
						Type:     model.QuestionTypeComposite,
						Text:     "État des latrines",
						MaxScore: 2,
						SubQuestions: []model.SubQuestion{
							{ID: "latrines_propres", Text: "Latrines propres", MaxScore: 1},
							{ID: "latrines_access", Text: "Latrines accessibles aux patients", MaxScore: 1},
						},
					},
				},
			},
			{
				ID:     "personnel",
				Title:  "Personnel et organisation",
				Weight: 1.0,
				Questions: []model.Question{
					{
						ID:       "pers_planning",
						Type:     model.QuestionTypeBoolean,
						Text:     "Planning de garde affiché",
						MaxScore: 1,
					},
					{
						ID:             "pers_formation",
						Type:           model.QuestionTypeChoice,
						Text:           "Formations reçues ce trimestre",
						MaxScore:       2,
						Multiple:       true,
						Options:        []string{"PEV", "PCIME", "SONU", "Paludisme"},
						CorrectAnswers: []string{"PEV", "PCIME"},
					},
				},
			},
			{
				ID:     "donnees",
				Title:  "Qualité des données",
				Weight: 2.0,
				Questions: []model.Question{
					{
						ID:          "rma_concordance",
						Type:        model.QuestionTypeMatrix,
						Text:        "Concordance RMA / outils de collecte (CPN1)",
						MaxScore:    3,
						Required:    true,
						Instruction: "Recompter les CPN1 dans le registre et comparer au RMA transmis",
						MonthlyData: []model.MonthlyData{
							{ID: "rma_m1", Month: "2024-10", ParentID: "rma_concordance"},
							{ID: "rma_m2", Month: "2024-11", ParentID: "rma_concordance"},
							{ID: "rma_m3", Month: "2024-12", ParentID: "rma_concordance"},
						},
					},
					{
						ID:            "rma_transmission",
						Type:          model.QuestionTypeNumber,
						Text:          "Jour du mois de transmission du dernier RMA",
						MaxScore:      1,
						CorrectAnswer: 5,
						Tolerance:     2,
					},
				},
			},
		},
	}
}
