package bootstrap

import (
	"context"
	"log"

	"derma-triage-be/internal/config"
	"derma-triage-be/internal/controller"
	"derma-triage-be/internal/pkg/logger"
	"derma-triage-be/internal/pkg/mailer"
	"derma-triage-be/internal/repository/memory"
	"derma-triage-be/internal/repository/unitofwork"
	"derma-triage-be/internal/service"
	"derma-triage-be/pkg/agent"
	"derma-triage-be/pkg/classifier"
	"derma-triage-be/pkg/classifier/tfserving"
	"derma-triage-be/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController   controller.IChatbotController
	ConditionController controller.IConditionController

	// Background Services (Exposed for main.go to run)
	ReportService service.IReportService

	// Shared infrastructure
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	llmBaseURL := cfg.Ai.OpenAIBaseURL
	if cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	// Threads live in memory only; a failed provider leaves the agent nil
	// and turns answer with a fixed unavailable message instead of crashing.
	var triageAgent *agent.Agent
	threadRepo := memory.NewThreadRepository()
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Printf("[ERROR] Failed to initialize LLM Provider, dialogue agent disabled: %v", err)
	} else {
		triageAgent = agent.NewAgent(llmProvider, threadRepo, uowFactory, sysLogger)
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	var imageClassifier classifier.ImageClassifier
	if cfg.Classifier.Enabled {
		tfServing := tfserving.NewClassifier(cfg.Classifier.BaseURL, cfg.Classifier.ModelName, cfg.Classifier.InputSize)
		if err := tfServing.Ready(context.Background()); err != nil {
			log.Printf("[WARN] Image classifier not reachable, turns will degrade to text only: %v", err)
		}
		imageClassifier = tfServing
		log.Printf("[INFO] Using image classifier: %s (%s)", cfg.Classifier.ModelName, cfg.Classifier.BaseURL)
	} else {
		log.Println("[INFO] Image classification disabled")
	}

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Report.TopicName, pubSub)
	triageService := service.NewTriageService(
		uowFactory,
		triageAgent,
		imageClassifier,
		publisherService,
		sysLogger,
		cfg.App.UploadDir,
	)
	conditionService := service.NewConditionService(uowFactory)

	reportService := service.NewReportService(
		pubSub,
		cfg.Report.TopicName,
		uowFactory,
		emailService,
		cfg.Report.ClinicianEmail,
	)

	// 5. Controllers
	return &Container{
		ChatbotController:   controller.NewChatbotController(triageService),
		ConditionController: controller.NewConditionController(conditionService),
		ReportService:       reportService,
		Logger:              sysLogger,
	}
}
