package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE node_metamodels (
				id VARCHAR(255) PRIMARY KEY,
				kind VARCHAR(100) NOT NULL,
				enabled BOOLEAN NOT NULL DEFAULT true,
				document JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_node_metamodels_kind ON node_metamodels(kind);
			CREATE INDEX idx_node_metamodels_enabled ON node_metamodels(enabled);

			CREATE TABLE workflows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				enabled BOOLEAN NOT NULL DEFAULT true,
				document JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_workflows_enabled ON workflows(enabled);
			CREATE INDEX idx_workflows_name ON workflows(name);
		`,
		2: `
			-- Expose handled intents for intent routing queries.
			CREATE INDEX idx_workflows_handled_intents
				ON workflows USING GIN ((document -> 'handled_intents'));
		`,
	}
}
