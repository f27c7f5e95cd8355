package skills

import "sort"

// Kind separates technical skills from soft skills.
type Kind string

const (
	Technical Kind = "technical"
	Soft      Kind = "soft"
)

// Entry is one canonical skill and the spellings that resolve to it.
type Entry struct {
	Name    string
	Kind    Kind
	Aliases []string
	// SectionOnly entries are common words; they only count inside a skills section.
	SectionOnly bool
}

// Catalog is the fixed set of skills the extractor recognises.
type Catalog struct {
	entries []Entry
	byName  map[string]Entry
}

// NewCatalog indexes entries by canonical name. Later duplicates are ignored.
func NewCatalog(entries []Entry) *Catalog {
	c := &Catalog{byName: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if _, dup := c.byName[e.Name]; dup || e.Name == "" {
			continue
		}
		c.byName[e.Name] = e
		c.entries = append(c.entries, e)
	}
	return c
}

// Entries returns the catalog in declaration order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Lookup returns the entry for a canonical name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.byName[name]
	return e, ok
}

// Names returns the canonical names of one kind, sorted.
func (c *Catalog) Names(kind Kind) []string {
	out := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Kind == kind {
			out = append(out, e.Name)
		}
	}
	sort.Strings(out)
	return out
}

var defaultCatalog = NewCatalog(append(technicalEntries(), softEntries()...))

// DefaultCatalog is the built-in technical and soft skill list.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func tech(name string, aliases ...string) Entry {
	return Entry{Name: name, Kind: Technical, Aliases: aliases}
}

func soft(name string, aliases ...string) Entry {
	return Entry{Name: name, Kind: Soft, Aliases: aliases}
}

func technicalEntries() []Entry {
	entries := []Entry{
		// languages
		tech("python"), tech("java"), tech("javascript", "js", "ecmascript"), tech("typescript"),
		tech("c++", "cpp"), tech("c#", "csharp"), tech("ruby"), tech("php"), tech("swift"), tech("kotlin"),
		tech("scala"), tech("rust"), tech("perl"), tech("matlab"), tech("sas"), tech("spss"),
		// web
		tech("react.js", "react", "reactjs"), tech("angular", "angularjs", "angular.js"),
		tech("vue", "vue.js", "vuejs"), tech("node.js", "nodejs", "node js"), tech("django"), tech("flask"),
		tech("spring", "spring boot", "springboot"), tech("express", "express.js", "expressjs"),
		tech("html"), tech("html5"), tech("css", "css3"), tech("sass", "scss"), tech("bootstrap"),
		tech("tailwind", "tailwind css", "tailwindcss"), tech("jquery"), tech("graphql"),
		tech("rest api", "rest apis", "restful api", "restful apis"),
		// cloud and ops
		tech("aws", "amazon web services"), tech("azure", "microsoft azure"), tech("gcp", "google cloud", "google cloud platform"),
		tech("docker"), tech("kubernetes", "k8s"), tech("jenkins"), tech("git"), tech("github"),
		tech("devops"), tech("ci/cd", "cicd", "ci cd"), tech("cloud computing"), tech("terraform"), tech("ansible"),
		tech("linux"), tech("unix"), tech("windows"), tech("macos", "mac os"),
		tech("shell scripting"), tech("bash"), tech("powershell"), tech("networking"), tech("cybersecurity", "cyber security"),
		tech("penetration testing", "pen testing"),
		// data
		tech("sql"), tech("mysql"), tech("postgresql", "postgres"), tech("mongodb", "mongo"), tech("oracle"),
		tech("sql server", "mssql", "ms sql"), tech("sqlite"), tech("redis"), tech("elasticsearch", "elastic search"),
		tech("hadoop"), tech("spark", "apache spark", "pyspark"), tech("kafka", "apache kafka"),
		tech("machine learning", "ml"), tech("deep learning"), tech("nlp", "natural language processing"),
		tech("computer vision"), tech("tensorflow"), tech("pytorch"), tech("keras"),
		tech("data analysis", "data analytics"), tech("data science"), tech("data visualization", "data visualisation"),
		tech("power bi", "powerbi"), tech("tableau"), tech("excel", "ms excel", "microsoft excel"),
		tech("numpy"), tech("pandas"), tech("scipy"), tech("scikit-learn", "sklearn", "scikit learn"),
		// process and tools
		tech("agile"), tech("scrum"), tech("kanban"), tech("jira"), tech("confluence"), tech("trello"), tech("asana"),
		// mobile
		tech("mobile development"), tech("android"), tech("ios"), tech("react native"), tech("flutter"), tech("xamarin"),
		// testing
		tech("test automation"), tech("selenium"), tech("junit"), tech("pytest"), tech("mocha"),
		// blockchain
		tech("blockchain"), tech("ethereum"), tech("solidity"), tech("web3"), tech("smart contracts", "smart contract"),
		// design
		tech("photoshop"), tech("illustrator"), tech("indesign"), tech("figma"), tech("sketch"), tech("adobe xd"),
		// cms and commerce
		tech("wordpress"), tech("shopify"), tech("woocommerce"), tech("magento"), tech("drupal"), tech("joomla"),
	}
	// Single letters and everyday words are too noisy outside a skills list.
	sectionOnly := []Entry{
		{Name: "r", Kind: Technical},
		{Name: "go", Kind: Technical, Aliases: []string{"golang"}},
	}
	for _, e := range sectionOnly {
		e.SectionOnly = true
		entries = append(entries, e)
	}
	return entries
}

func softEntries() []Entry {
	return []Entry{
		soft("communication", "communication skills"), soft("teamwork", "team work", "team player"),
		soft("leadership"), soft("problem solving", "problem-solving"), soft("critical thinking"),
		soft("time management"), soft("organization", "organisation", "organizational skills"),
		soft("creativity"), soft("adaptability"), soft("flexibility"), soft("work ethic"),
		soft("interpersonal skills"), soft("emotional intelligence"), soft("collaboration"),
		soft("conflict resolution"), soft("decision making", "decision-making"), soft("presentation", "presentation skills"),
		soft("negotiation"), soft("persuasion"), soft("customer service"), soft("attention to detail"),
		soft("analytical thinking", "analytical skills"), soft("strategic planning"), soft("research"),
		soft("writing"), soft("verbal communication"), soft("project management"), soft("mentoring"),
		soft("coaching"), soft("public speaking"), soft("active listening"), soft("patience"), soft("empathy"),
		soft("self motivation", "self-motivation", "self motivated", "self-motivated"), soft("resourcefulness"),
		soft("reliability"), soft("accountability"), soft("multitasking", "multi-tasking"), soft("prioritization", "prioritisation"),
	}
}
