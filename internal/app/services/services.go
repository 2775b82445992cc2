package services

// Services defined in this package:
// - AuthService: registration, login and refresh-token rotation
// - UserService: profiles, skills and the mentor directory
// - ProblemService: problem lifecycle, assignment and mentor matching
// - ChatService: per-problem conversations and messages
// - EventService: events and registrations
// - KnowledgeService: knowledge base items and AI enrichment jobs
// - AnnouncementService: announcements and tech news ingestion
