package reporter

import "sync"

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in reference table. It is built once and shared.
func Default() *Table {
	defaultOnce.Do(func() {
		table, err := builtinBuilder().Build()
		if err != nil {
			panic("reporter: built-in table is invalid: " + err.Error())
		}
		defaultTable = table
	})
	return defaultTable
}

func builtinBuilder() *Builder {
	b := NewBuilder()

	// Federal reporters.
	b.AddReporter(ReporterEntry{Abbrev: "U.S.", Name: "United States Reports", Court: "U.S.", CourtImplied: true, Jurisdiction: "US", Level: CourtLevelHighestAppellate})
	b.AddReporter(ReporterEntry{Abbrev: "S. Ct.", Name: "Supreme Court Reporter", Court: "U.S.", CourtImplied: true, Jurisdiction: "US", Level: CourtLevelHighestAppellate, Variants: []string{"S.Ct."}})
	b.AddReporter(ReporterEntry{Abbrev: "L. Ed.", Name: "Lawyers' Edition", Court: "U.S.", CourtImplied: true, Jurisdiction: "US", Level: CourtLevelHighestAppellate})
	b.AddReporter(ReporterEntry{Abbrev: "L. Ed. 2d", Name: "Lawyers' Edition, Second Series", Court: "U.S.", CourtImplied: true, Jurisdiction: "US", Level: CourtLevelHighestAppellate})
	for _, abbrev := range []string{"F.", "F.2d", "F.3d", "F.4th"} {
		b.AddReporter(ReporterEntry{Abbrev: abbrev, Name: "Federal Reporter", Jurisdiction: "US", Level: CourtLevelIntermediateAppellate})
	}
	b.AddReporter(ReporterEntry{Abbrev: "F. App'x", Name: "Federal Appendix", Jurisdiction: "US", Level: CourtLevelIntermediateAppellate, Variants: []string{"Fed. Appx."}})
	for _, abbrev := range []string{"F. Supp.", "F. Supp. 2d", "F. Supp. 3d"} {
		b.AddReporter(ReporterEntry{Abbrev: abbrev, Name: "Federal Supplement", Jurisdiction: "US", Level: CourtLevelTrial})
	}
	b.AddReporter(ReporterEntry{Abbrev: "F.R.D.", Name: "Federal Rules Decisions", Jurisdiction: "US", Level: CourtLevelTrial})
	b.AddReporter(ReporterEntry{Abbrev: "B.R.", Name: "Bankruptcy Reporter", Jurisdiction: "US", Level: CourtLevelSpecialized})

	// Regional reporters.
	for _, abbrev := range []string{"A.", "A.2d", "A.3d", "P.", "P.2d", "P.3d", "N.E.", "N.E.2d", "N.E.3d",
		"N.W.", "N.W.2d", "S.E.", "S.E.2d", "S.W.", "S.W.2d", "S.W.3d", "So.", "So. 2d", "So. 3d"} {
		b.AddReporter(ReporterEntry{Abbrev: abbrev, Name: "Regional Reporter", Jurisdiction: "US-STATE"})
	}

	// State reporters.
	b.AddReporter(ReporterEntry{Abbrev: "Cal. Rptr.", Name: "California Reporter", Jurisdiction: "US-CA", Level: CourtLevelIntermediateAppellate})
	b.AddReporter(ReporterEntry{Abbrev: "Cal. Rptr. 3d", Name: "California Reporter, Third Series", Jurisdiction: "US-CA", Level: CourtLevelIntermediateAppellate})
	b.AddReporter(ReporterEntry{Abbrev: "N.Y.S.2d", Name: "New York Supplement", Jurisdiction: "US-NY", Level: CourtLevelTrial})
	b.AddReporter(ReporterEntry{Abbrev: "Pa.", Name: "Pennsylvania State Reports", Court: "Pa.", CourtImplied: true, Jurisdiction: "US-PA", Level: CourtLevelHighestAppellate})
	b.AddReporter(ReporterEntry{Abbrev: "Pa. Super.", Name: "Pennsylvania Superior Court Reports", Court: "Pa. Super. Ct.", CourtImplied: true, Jurisdiction: "US-PA", Level: CourtLevelIntermediateAppellate})
	b.AddReporter(ReporterEntry{Abbrev: "Pa. Commw.", Name: "Pennsylvania Commonwealth Court Reports", Court: "Pa. Commw. Ct.", CourtImplied: true, Jurisdiction: "US-PA", Level: CourtLevelIntermediateAppellate})
	b.AddReporter(ReporterEntry{Abbrev: "Pa. D. & C.", Name: "Pennsylvania District and County Reports", Jurisdiction: "US-PA", Level: CourtLevelTrial, Variants: []string{"D. & C."}})

	// Courts.
	b.AddCourt(CourtEntry{Abbrev: "U.S.", Name: "Supreme Court of the United States", Jurisdiction: "US", Level: CourtLevelHighestAppellate})
	for _, abbrev := range []string{"1st Cir.", "2d Cir.", "3d Cir.", "4th Cir.", "5th Cir.", "6th Cir.", "7th Cir.",
		"8th Cir.", "9th Cir.", "10th Cir.", "11th Cir.", "D.C. Cir.", "Fed. Cir."} {
		b.AddCourt(CourtEntry{Abbrev: abbrev, Name: "United States Court of Appeals", Jurisdiction: "US", Level: CourtLevelIntermediateAppellate})
	}
	for _, abbrev := range []string{"E.D. Pa.", "M.D. Pa.", "W.D. Pa.", "S.D.N.Y.", "E.D.N.Y.", "N.D. Cal.", "C.D. Cal.",
		"D.N.J.", "D. Del.", "D.D.C.", "N.D. Ill."} {
		b.AddCourt(CourtEntry{Abbrev: abbrev, Name: "United States District Court", Jurisdiction: "US", Level: CourtLevelTrial})
	}
	b.AddCourt(CourtEntry{Abbrev: "Pa.", Name: "Supreme Court of Pennsylvania", Jurisdiction: "US-PA", Level: CourtLevelHighestAppellate})
	b.AddCourt(CourtEntry{Abbrev: "Pa. Super. Ct.", Name: "Superior Court of Pennsylvania", Jurisdiction: "US-PA", Level: CourtLevelIntermediateAppellate})
	b.AddCourt(CourtEntry{Abbrev: "Pa. Commw. Ct.", Name: "Commonwealth Court of Pennsylvania", Jurisdiction: "US-PA", Level: CourtLevelIntermediateAppellate})
	b.AddCourt(CourtEntry{Abbrev: "Pa. Ct. Com. Pl.", Name: "Pennsylvania Court of Common Pleas", Jurisdiction: "US-PA", Level: CourtLevelTrial})
	b.AddCourt(CourtEntry{Abbrev: "Cal.", Name: "Supreme Court of California", Jurisdiction: "US-CA", Level: CourtLevelHighestAppellate})
	b.AddCourt(CourtEntry{Abbrev: "Cal. Ct. App.", Name: "California Court of Appeal", Jurisdiction: "US-CA", Level: CourtLevelIntermediateAppellate})
	b.AddCourt(CourtEntry{Abbrev: "N.Y.", Name: "New York Court of Appeals", Jurisdiction: "US-NY", Level: CourtLevelHighestAppellate})
	b.AddCourt(CourtEntry{Abbrev: "N.J.", Name: "Supreme Court of New Jersey", Jurisdiction: "US-NJ", Level: CourtLevelHighestAppellate})
	b.AddCourt(CourtEntry{Abbrev: "Bankr. E.D. Pa.", Name: "Bankruptcy Court, Eastern District of Pennsylvania", Jurisdiction: "US", Level: CourtLevelSpecialized})

	// Statutory and regulatory codes.
	b.AddCode(CodeEntry{Abbrev: "U.S.C.", Name: "United States Code", Jurisdiction: "US", TitleRequired: true})
	b.AddCode(CodeEntry{Abbrev: "U.S.C.A.", Name: "United States Code Annotated", Jurisdiction: "US", TitleRequired: true})
	b.AddCode(CodeEntry{Abbrev: "C.F.R.", Name: "Code of Federal Regulations", Jurisdiction: "US", TitleRequired: true, Variants: []string{"CFR"}})
	b.AddCode(CodeEntry{Abbrev: "Pa.C.S.", Name: "Pennsylvania Consolidated Statutes", Jurisdiction: "US-PA", TitleRequired: true, Variants: []string{"Pa. Cons. Stat."}})
	b.AddCode(CodeEntry{Abbrev: "P.S.", Name: "Purdon's Pennsylvania Statutes", Jurisdiction: "US-PA", TitleRequired: true, Variants: []string{"Pa. Stat."}})
	b.AddCode(CodeEntry{Abbrev: "Pa. Code", Name: "Pennsylvania Code", Jurisdiction: "US-PA", TitleRequired: true})
	b.AddCode(CodeEntry{Abbrev: "Cal. Civ. Code", Name: "California Civil Code", Jurisdiction: "US-CA"})
	b.AddCode(CodeEntry{Abbrev: "Cal. Penal Code", Name: "California Penal Code", Jurisdiction: "US-CA"})
	b.AddCode(CodeEntry{Abbrev: "N.Y. Gen. Bus. Law", Name: "New York General Business Law", Jurisdiction: "US-NY"})
	b.AddCode(CodeEntry{Abbrev: "N.J. Stat. Ann.", Name: "New Jersey Statutes Annotated", Jurisdiction: "US-NJ"})

	// Rule bodies.
	b.AddRuleBody(RuleBodyEntry{Abbrev: "Fed. R. Civ. P.", Name: "Federal Rules of Civil Procedure", Jurisdiction: "US"})
	b.AddRuleBody(RuleBodyEntry{Abbrev: "Fed. R. Crim. P.", Name: "Federal Rules of Criminal Procedure", Jurisdiction: "US"})
	b.AddRuleBody(RuleBodyEntry{Abbrev: "Fed. R. Evid.", Name: "Federal Rules of Evidence", Jurisdiction: "US"})
	b.AddRuleBody(RuleBodyEntry{Abbrev: "Fed. R. App. P.", Name: "Federal Rules of Appellate Procedure", Jurisdiction: "US"})
	b.AddRuleBody(RuleBodyEntry{Abbrev: "Fed. R. Bankr. P.", Name: "Federal Rules of Bankruptcy Procedure", Jurisdiction: "US"})
	b.AddRuleBody(RuleBodyEntry{Abbrev: "Pa.R.C.P.", Name: "Pennsylvania Rules of Civil Procedure", Jurisdiction: "US-PA", UsesNo: true, Variants: []string{"Pa. R. Civ. P."}})
	b.AddRuleBody(RuleBodyEntry{Abbrev: "Pa.R.Crim.P.", Name: "Pennsylvania Rules of Criminal Procedure", Jurisdiction: "US-PA", Variants: []string{"Pa. R. Crim. P."}})
	b.AddRuleBody(RuleBodyEntry{Abbrev: "Pa.R.A.P.", Name: "Pennsylvania Rules of Appellate Procedure", Jurisdiction: "US-PA", Variants: []string{"Pa. R. App. P."}})
	b.AddRuleBody(RuleBodyEntry{Abbrev: "Pa.R.E.", Name: "Pennsylvania Rules of Evidence", Jurisdiction: "US-PA", Variants: []string{"Pa. R. Evid."}})

	// Journals.
	b.AddJournal(JournalEntry{Abbrev: "Harv. L. Rev.", Name: "Harvard Law Review"})
	b.AddJournal(JournalEntry{Abbrev: "Yale L.J.", Name: "Yale Law Journal"})
	b.AddJournal(JournalEntry{Abbrev: "Colum. L. Rev.", Name: "Columbia Law Review"})
	b.AddJournal(JournalEntry{Abbrev: "Stan. L. Rev.", Name: "Stanford Law Review"})
	b.AddJournal(JournalEntry{Abbrev: "U. Pa. L. Rev.", Name: "University of Pennsylvania Law Review"})
	b.AddJournal(JournalEntry{Abbrev: "U. Chi. L. Rev.", Name: "University of Chicago Law Review"})
	b.AddJournal(JournalEntry{Abbrev: "Mich. L. Rev.", Name: "Michigan Law Review"})
	b.AddJournal(JournalEntry{Abbrev: "Temp. L. Rev.", Name: "Temple Law Review"})
	b.AddJournal(JournalEntry{Abbrev: "Dick. L. Rev.", Name: "Dickinson Law Review"})

	// Constitutions.
	b.AddConstitution(ConstitutionEntry{Abbrev: "U.S.", Name: "United States Constitution", Federal: true, Priority: 0})
	for _, abbrev := range []string{"Pa.", "N.J.", "N.Y.", "Cal.", "Del.", "Ohio", "Md."} {
		b.AddConstitution(ConstitutionEntry{Abbrev: abbrev, Name: "State Constitution", Priority: 1})
	}

	return b
}
