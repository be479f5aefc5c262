// Package lexicon provides the static skill dictionary, synonym table, and
// must-have domain gate list used by extraction and scoring. A Lexicon is
// read-only configuration injected at construction, so tests can swap in a
// smaller one.
package lexicon

// Lexicon holds the lookup tables for skill matching. All lookups are
// case-insensitive; Synonyms and boundary matching key off the lowercased
// canonical form. A Lexicon is safe to share across goroutines because it
// is never mutated after construction.
type Lexicon struct {
	// Dictionary lists canonical skill names in display form.
	Dictionary []string
	// Synonyms maps a lowercased canonical skill to its accepted variants.
	Synonyms map[string][]string
	// MustHaveDomains are high-stakes tokens whose absence of resume
	// evidence caps the overall score regardless of keyword overlap.
	MustHaveDomains []string
	// Section-header keywords for the JD section state machine.
	RequiredHeaders       []string
	PreferredHeaders      []string
	ResponsibilityHeaders []string
}

// Default returns the production lexicon.
func Default() *Lexicon {
	return &Lexicon{
		Dictionary: []string{
			"SQL", "Python", "DBT", "Tableau", "Power BI", "Snowflake", "Fivetran", "Airflow",
			"Databricks", "Spark", "PySpark", "AWS", "Azure", "GCP", "Git", "Docker", "Kubernetes",
			"ETL", "ELT", "Data Warehouse", "Data Modeling", "Dimensional Modeling",
			"Star Schema", "Snowflake Schema", "Data Governance", "Data Quality", "Data Validation",
			"Analytics", "Dashboarding", "Looker", "Redshift", "BigQuery", "PostgreSQL", "MySQL",
			"SQL Server", "Oracle", "NoSQL", "Kafka", "API", "REST", "CI/CD", "Linux",
			"Monitoring", "Data Pipelines", "DBA", "Data Engineering", "Analytics Engineering",
			"Machine Learning", "NLP", "Jupyter", "Terraform", "Jira", "Agile", "Scrum",
			"Unit Testing", "Data Lake", "Delta Lake", "MLflow", "SSIS", "SSRS", "SSAS",
		},
		Synonyms: map[string][]string{
			"dbt":                  {"data build tool", "data build tools"},
			"power bi":             {"powerbi"},
			"data modeling":        {"data model", "relational modeling"},
			"dimensional modeling": {"star schema", "snowflake schema", "dimensional model"},
			"data warehouse":       {"data warehousing", "cloud data warehouse"},
			"etl":                  {"extract transform load"},
			"elt":                  {"extract load transform"},
			"sql":                  {"structured query language"},
			"airflow":              {"apache airflow"},
			"spark":                {"apache spark"},
			"kubernetes":           {"k8s"},
			"ci/cd":                {"cicd", "ci cd"},
			"rest":                 {"rest api", "restful"},
		},
		MustHaveDomains: []string{
			"mqtt", "opc ua", "opc-ua", "opcua", "modbus", "bacnet", "scada", "mes",
			"historian", "pi", "osisoft", "ignition", "plc", "iiot", "ot",
			"influxdb", "timescaledb", "opc",
		},
		RequiredHeaders:       []string{"required", "requirements", "must have", "must-have", "qualifications"},
		PreferredHeaders:      []string{"preferred", "nice to have", "nice-to-have", "preferred qualifications"},
		ResponsibilityHeaders: []string{"responsibilities", "responsibility"},
	}
}

// SynonymsFor returns the synonym variants for a skill, looked up by its
// lowercased form. Returns nil when the skill has no registered synonyms.
func (l *Lexicon) SynonymsFor(skill string) []string {
	return l.Synonyms[lowerTrim(skill)]
}
