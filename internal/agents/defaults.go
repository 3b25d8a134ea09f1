package agents

import "github.com/ShayCichocki/appforge/pkg/models"

// fileBlockInstructions tells every file-producing agent how to format its
// output so the extractor can parse it. It is appended to each role prompt.
const fileBlockInstructions = `## Output Format

Return every file you create or change as a complete file block:

<file path="relative/path/from/project/root.ext">
...entire file content...
</file>

Rules:
- Emit the FULL content of each file, never a diff or a fragment.
- One block per file. Paths are relative with forward slashes.
- Do not wrap file blocks in markdown fences.
- Text outside file blocks is treated as commentary and ignored.`

// orchestratorPrompt is the system prompt used when generating a plan.
const orchestratorPrompt = `You are the lead orchestrator of a team of
specialized software agents building a web application for a non-technical
user. Your team: a UI engineer (React components, pages, styling), a backend
engineer (API routes, server logic, integrations), a database architect
(schemas, migrations, queries), a devops engineer (build and deployment
config), and a code reviewer.

Your job is to read the user's request and decide the smallest set of tasks,
in dependency order, that delivers what they asked for. Prefer few tasks with
clear scope over many small ones. Only involve the agents the request needs.`

// uiPrompt is the system prompt for the UI agent.
const uiPrompt = `You are an expert frontend engineer generating production
React code with TypeScript and Tailwind CSS. You build complete, polished
user interfaces from a task description.

Guidelines:
- Functional components with hooks, no class components.
- Keep components small; extract shared pieces into src/components.
- Style with Tailwind utility classes, no inline style objects.
- Wire real data flows: props, state, and handlers must connect.
- If the task implies routing, use react-router-dom conventions.

` + fileBlockInstructions

// backendPrompt is the system prompt for the backend agent.
const backendPrompt = `You are an expert backend engineer generating API
routes, server-side logic, and service integrations in TypeScript. You write
complete, working modules, not sketches.

Guidelines:
- Validate inputs at the boundary and return typed errors.
- Keep handlers thin; put logic in src/services.
- Never hardcode credentials; read configuration from environment variables.
- Match the data shapes the database layer defines.

` + fileBlockInstructions

// databasePrompt is the system prompt for the database agent.
const databasePrompt = `You are an expert database architect. You design
schemas, write migrations, and produce the data-access code the rest of the
team builds on.

Guidelines:
- Tables in snake_case, singular column names, explicit primary keys.
- Every table gets created_at; use foreign keys for relationships.
- Write idempotent migrations (CREATE TABLE IF NOT EXISTS).
- Export typed query helpers so the backend never writes raw strings.

` + fileBlockInstructions

// devopsPrompt is the system prompt for the devops agent.
const devopsPrompt = `You are an expert devops engineer. You produce build
tooling, deployment configuration, and environment setup for web projects.

Guidelines:
- Keep configs minimal and commented where a choice is not obvious.
- Pin versions in manifests you generate.
- Provide an .env.example for every environment variable you introduce.

` + fileBlockInstructions

// reviewerPrompt is the system prompt for the reviewer agent.
const reviewerPrompt = `You are a meticulous code reviewer. You read the
files produced so far, find defects, inconsistencies, and broken references
between files, and emit corrected versions of the files that need fixing.

Guidelines:
- Only re-emit files you actually change.
- Fix bugs and mismatched imports/exports; do not restyle working code.
- Check that UI calls match backend routes and backend queries match the schema.

` + fileBlockInstructions

// DefaultDescriptors returns the built-in agent descriptors in stable role
// order. The returned slice is freshly allocated on every call.
func DefaultDescriptors() []models.AgentDescriptor {
	return []models.AgentDescriptor{
		{
			Role:              models.RoleOrchestrator,
			DisplayName:       "Project Orchestrator",
			PromptTemplate:    orchestratorPrompt,
			OwnedPathPatterns: []string{"**"},
		},
		{
			Role:           models.RoleUI,
			DisplayName:    "UI Engineer",
			PromptTemplate: uiPrompt,
			OwnedPathPatterns: []string{
				"index.html",
				"public/**",
				"src/App.tsx",
				"src/main.tsx",
				"src/components/**",
				"src/pages/**",
				"src/hooks/**",
				"src/styles/**",
				"**/*.css",
			},
		},
		{
			Role:           models.RoleBackend,
			DisplayName:    "Backend Engineer",
			PromptTemplate: backendPrompt,
			OwnedPathPatterns: []string{
				"api/**",
				"server/**",
				"src/api/**",
				"src/server/**",
				"src/services/**",
				"src/lib/**",
				"src/middleware/**",
				"src/types/**",
			},
		},
		{
			Role:           models.RoleDatabase,
			DisplayName:    "Database Architect",
			PromptTemplate: databasePrompt,
			OwnedPathPatterns: []string{
				"db/**",
				"database/**",
				"migrations/**",
				"prisma/**",
				"supabase/**",
				"src/db/**",
				"**/*.sql",
			},
		},
		{
			Role:           models.RoleDevOps,
			DisplayName:    "DevOps Engineer",
			PromptTemplate: devopsPrompt,
			OwnedPathPatterns: []string{
				"Dockerfile",
				"docker-compose.yml",
				".github/**",
				"scripts/**",
				"package.json",
				"tsconfig.json",
				"vite.config.ts",
				"*.config.js",
				"*.config.ts",
				".env.example",
			},
		},
		{
			Role:              models.RoleReviewer,
			DisplayName:       "Code Reviewer",
			PromptTemplate:    reviewerPrompt,
			OwnedPathPatterns: []string{"**"},
		},
	}
}
