package spec

// EvalSpec describes one evaluation session: the stores under test and the
// annotated query sets to run against them.
type EvalSpec struct {
	Jobs   []Job            `yaml:"jobs"`
	Stores map[string]Store `yaml:"stores"`
	Runs   RunsConfig       `yaml:"runs"`
}

type Job struct {
	Name       string   `yaml:"name"`
	Qrels      string   `yaml:"qrels"`
	Stores     []string `yaml:"stores"`
	TopK       int      `yaml:"top_k"`
	AllQueries bool     `yaml:"all_queries"`
	Output     string   `yaml:"output,omitempty"`
}

type Store struct {
	Type       string `yaml:"type"`
	Connection string `yaml:"connection"`
	Collection string `yaml:"collection,omitempty"`
}

type RunsConfig struct {
	Warmup      int `yaml:"warmup"`
	Concurrency int `yaml:"concurrency"`
}
