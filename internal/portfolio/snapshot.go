package portfolio

// Default returns the compiled-in snapshot of the portfolio owner's profile.
// It is used whenever no imported snapshot exists in storage.
func Default() Context {
	return Context{
		Name:     "Mohamed Louay Ouled Ali",
		Nickname: "Louay",
		Title:    "Backend Developer & AI Automation Engineer",
		Location: "Tunis, Tunisia",
		Email:    "Ouledalilouay3@gmail.com",
		Socials: Socials{
			GitHub:   "https://github.com/louay-ouledali",
			LinkedIn: "https://www.linkedin.com/in/louay-ouledali-250936394",
		},
		About: "Computer Engineering student at ISTIC, University of Carthage, specializing in backend " +
			"development, data engineering, and AI-powered automation. Expected graduation May 2026. " +
			"Passionate about building scalable systems and intelligent automation solutions.",
		Skills: map[string][]string{
			"programming": {"Python", "Java", "TypeScript", "JavaScript", "SQL", "C++", "C#", "Go"},
			"frameworks":  {"Spring Boot", "FastAPI", "Flask", "Angular", "React"},
			"ai_ml":       {"Mistral 7B", "Gensim", "scikit-learn", "PyTorch", "RAG Pipelines", "OpenAI API"},
			"databases":   {"SQL Server", "PostgreSQL", "MySQL", "Oracle", "MongoDB", "Redis"},
			"devops":      {"Docker", "Kubernetes", "Redis", "RabbitMQ", "Git", "CI/CD"},
			"cloud":       {"Azure", "AWS", "Firebase", "Cloudinary"},
		},
		Projects: []Project{
			{
				Title: "Dynamic Database Connector",
				Description: "Unified AI-powered platform for managing heterogeneous databases (MySQL, PostgreSQL, " +
					"SQL Server, Oracle). Features AI log analysis using Mistral 7B, event-driven architecture " +
					"with RabbitMQ + Redis, and Power BI dashboards.",
				Technologies: []string{"Spring Boot", "Angular", "Docker", "Python", "Mistral 7B", "RabbitMQ", "Redis", "Power BI"},
			},
			{
				Title: "Modern React Portfolio",
				Description: "Cloud-ready portfolio with AI chat integration, GitHub project ingestion, admin " +
					"dashboard with Cloudinary image management, and Firebase backend.",
				Technologies: []string{"React", "Firebase", "Azure Functions", "Groq API", "Cloudinary"},
			},
			{
				Title: "N8n Workflow Automation",
				Description: "Automated API synchronization workflows and trigger-based pipelines for data " +
					"validation and cleaning with multi-source data integration.",
				Technologies: []string{"N8n", "API", "Automation"},
			},
			{
				Title: "DB Router (Upcoming - Jan 2026)",
				Description: "Intelligent database rerouting and migration automation platform with smart " +
					"caching, real-time failover, and performance analytics.",
				Technologies: []string{"Go", "PostgreSQL", "Redis", "Docker", "Kubernetes", "gRPC"},
			},
			{
				Title: "SecConfig Auditor (Upcoming - May 2026)",
				Description: "Security configuration auditing dashboard that analyzes system configs against " +
					"CIS/NIST benchmarks and generates remediation reports.",
				Technologies: []string{"Python", "FastAPI", "React", "PostgreSQL", "Celery"},
			},
		},
		Experience: []Experience{
			{
				Company: "MS Solutions Tunisia",
				Role:    "Software Engineering Intern",
				Period:  "July 2025 - August 2025",
				Highlights: "Built containerized multi-database platform, Spring Boot REST APIs with JWT, AI log " +
					"classification, event-driven backend with sub-200ms response time.",
			},
			{
				Company:    "Djagora Academy",
				Role:       "Full Stack Development Intern",
				Period:     "July 2024 - September 2024",
				Highlights: "Developed e-learning platform with Angular/Spring Boot, AWS deployment, automated backups.",
			},
		},
		Certifications: []string{
			"IELTS Academic (Band 7.5) - British Council",
			"Certified Ethical Hacker v13 - EC-Council",
			"Microsoft Certified: Power BI Data Analyst Associate (PL-300)",
			"Scrum Master Accredited Certification - International Scrum Institute",
			"Python Entry Level Programmer - Python Institute",
		},
		Achievements: []string{
			"Certificate of Excellence - Ideathon ISTIC-AIZU 2.0 (Nov 2025)",
			"IEEE Student Member (Valid to Dec 2026)",
			"Letter of Recommendation - ISTIC (Prof. Neila Bedioui)",
		},
		Languages: []string{
			"Arabic (Native)",
			"English (Fluent - IELTS 7.5)",
			"French (Fluent)",
		},
	}
}
