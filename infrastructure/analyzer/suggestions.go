package analyzer

import "github.com/canstralian/CodeQualityAI/domain"

// suggestionSpec maps one issue type to its improvement advice and the key
// of its per-language example snippet.
type suggestionSpec struct {
	title       string
	description string
	exampleKey  string
}

var suggestionCatalog = map[string]suggestionSpec{
	"Long line": {
		title:       "Improve Line Length",
		description: "Break long lines into multiple lines to improve readability.",
		exampleKey:  "line_length",
	},
	"Long function": {
		title:       "Refactor Long Functions",
		description: "Break down functions into smaller, more focused functions that each do one thing well.",
		exampleKey:  "function_length",
	},
	"Complex code": {
		title:       "Reduce Complexity",
		description: "Simplify complex code by breaking it down, removing nested conditions, and using helper functions.",
		exampleKey:  "complexity",
	},
	"Inconsistent naming": {
		title:       "Standardize Naming Conventions",
		description: "Use consistent naming patterns throughout your codebase for better readability.",
		exampleKey:  "naming",
	},
	"Missing documentation": {
		title:       "Add Documentation",
		description: "Add docstrings, comments, and type hints to improve code clarity and maintainability.",
		exampleKey:  "documentation",
	},
	"Potential security issue": {
		title:       "Improve Security",
		description: "Address security vulnerabilities by validating inputs, using secure libraries, and following security best practices.",
		exampleKey:  "security",
	},
	"File size": {
		title:       "Split Large Files",
		description: "Split large files into smaller modules with focused responsibilities.",
		exampleKey:  "file_size",
	},
	"Code duplication": {
		title:       "Reduce Duplication",
		description: "Refactor duplicated code into reusable functions or classes.",
		exampleKey:  "duplication",
	},
	"Potential bug": {
		title:       "Fix Potential Bugs",
		description: "Address potential logical errors and add test cases to verify functionality.",
		exampleKey:  "bugs",
	},
	"Performance issue": {
		title:       "Optimize Performance",
		description: "Improve algorithm efficiency, reduce unnecessary operations, and optimize resource usage.",
		exampleKey:  "performance",
	},
}

// buildSuggestions produces one suggestion per distinct issue type, in the
// order the types first appear.
func buildSuggestions(issues []domain.Issue, extension string) []domain.Suggestion {
	if len(issues) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(issues))
	var suggestions []domain.Suggestion

	for _, issue := range issues {
		if seen[issue.Type] {
			continue
		}
		seen[issue.Type] = true

		spec, ok := suggestionCatalog[issue.Type]
		if !ok {
			continue
		}

		suggestions = append(suggestions, domain.Suggestion{
			Title:       spec.title,
			Description: spec.description,
			Example:     exampleFor(spec.exampleKey, extension),
		})
	}

	return suggestions
}

const noExample = "# Example not available for this language and issue type"

// exampleFor picks a before/after snippet for the issue type. Python and
// JavaScript have dedicated snippets; everything else reuses the closest set.
func exampleFor(key, extension string) string {
	lang := "py"
	switch extension {
	case "js", "jsx", "ts", "tsx", "java":
		lang = "js"
	}

	if example, ok := examples[lang][key]; ok {
		return example
	}
	return noExample
}

var examples = map[string]map[string]string{
	"py": {
		"line_length": "# Before\n" +
			"result = some_long_function_name(first_parameter, second_parameter, third_parameter, fourth_parameter)\n\n" +
			"# After\n" +
			"result = some_long_function_name(\n    first_parameter,\n    second_parameter,\n    third_parameter,\n    fourth_parameter\n)",
		"function_length": "# Before\n" +
			"def process_data(data):\n    # 50+ lines of code doing multiple things\n    ...\n\n" +
			"# After\n" +
			"def process_data(data):\n    validated = validate_data(data)\n    processed = transform_data(validated)\n    return save_results(processed)",
		"complexity": "# Before\n" +
			"def check_eligibility(user):\n    if user.age >= 18:\n        if user.has_subscription:\n            return 'Full access'\n        else:\n            return 'Limited access'\n    else:\n        return 'No access'\n\n" +
			"# After\n" +
			"def check_eligibility(user):\n    if user.age < 18:\n        return 'No access'\n    if not user.has_subscription:\n        return 'Limited access'\n    return 'Full access'",
		"naming": "# Before\n" +
			"class userMgr:\n    def UpdateUserInfo(self, USR_ID, NewName):\n        pass\n\n" +
			"# After\n" +
			"class UserManager:\n    def update_user_info(self, user_id, new_name):\n        pass",
		"documentation": "# Before\n" +
			"def calculate_total(items, tax_rate):\n    return sum(i.price for i in items) * (1 + tax_rate)\n\n" +
			"# After\n" +
			"def calculate_total(items, tax_rate):\n    \"\"\"Calculate the total price including tax.\"\"\"\n    return sum(i.price for i in items) * (1 + tax_rate)",
		"security": "# Before\n" +
			"query = \"SELECT * FROM users WHERE name = '\" + user_input + \"'\"\ncursor.execute(query)\n\n" +
			"# After\n" +
			"query = \"SELECT * FROM users WHERE name = %s\"\ncursor.execute(query, (user_input,))",
		"file_size": "# Before: one large file with multiple classes and functions\n\n" +
			"# After: split into focused modules\n" +
			"# auth.py, data.py, main.py",
		"duplication": "# Before\n" +
			"# the same normalize-and-print block repeated in two loops\n\n" +
			"# After\n" +
			"def process_person(person):\n    if person.active:\n        print(person.name.strip(), person.email.lower())",
		"bugs": "# Before\n" +
			"def get_discount(price, is_member):\n    if is_member:\n        return price * 0.9\n    return price - 5\n\n" +
			"# After\n" +
			"def get_discount(price, is_member):\n    if is_member:\n        return price * 0.9\n    return max(0, price - 5)",
		"performance": "# Before\n" +
			"# O(n^2) nested loops searching for duplicates\n\n" +
			"# After\n" +
			"def find_duplicates(items):\n    seen, dups = set(), set()\n    for item in items:\n        (dups if item in seen else seen).add(item)\n    return list(dups)",
	},
	"js": {
		"line_length": "// Before\n" +
			"const result = someLongFunctionName(firstParameter, secondParameter, thirdParameter, fourthParameter);\n\n" +
			"// After\n" +
			"const result = someLongFunctionName(\n  firstParameter,\n  secondParameter,\n  thirdParameter,\n  fourthParameter\n);",
		"function_length": "// Before\n" +
			"function processData(data) {\n  // 50+ lines of code doing multiple things\n}\n\n" +
			"// After\n" +
			"function processData(data) {\n  const validated = validateData(data);\n  const processed = transformData(validated);\n  return saveResults(processed);\n}",
		"complexity": "// Before\n" +
			"if (user.age >= 18) {\n  if (user.hasSubscription) {\n    return 'Full access';\n  }\n  return 'Limited access';\n}\nreturn 'No access';\n\n" +
			"// After\n" +
			"if (user.age < 18) return 'No access';\nif (!user.hasSubscription) return 'Limited access';\nreturn 'Full access';",
		"naming": "// Before\n" +
			"class userMgr {\n  UpdateUserInfo(USR_ID, NewName) {}\n}\n\n" +
			"// After\n" +
			"class UserManager {\n  updateUserInfo(userId, newName) {}\n}",
		"documentation": "// Before\n" +
			"function calculateTotal(items, taxRate) { ... }\n\n" +
			"// After\n" +
			"/**\n * Calculate the total price including tax.\n */\nfunction calculateTotal(items, taxRate) { ... }",
		"security": "// Before\n" +
			"const query = \"SELECT * FROM users WHERE name = '\" + userInput + \"'\";\ndb.execute(query);\n\n" +
			"// After\n" +
			"const query = \"SELECT * FROM users WHERE name = ?\";\ndb.execute(query, [userInput]);",
		"file_size": "// Before: one large file with multiple classes and functions\n\n" +
			"// After: split into modules\n" +
			"// auth.js, data.js, main.js",
		"duplication": "// Before\n" +
			"// the same normalize-and-log block repeated in two loops\n\n" +
			"// After\n" +
			"function processPerson(person) {\n  if (!person.active) return;\n  console.log(person.name.trim(), person.email.toLowerCase());\n}",
		"bugs": "// Before\n" +
			"function getDiscount(price, isMember) {\n  if (isMember) return price * 0.9;\n  return price - 5;\n}\n\n" +
			"// After\n" +
			"function getDiscount(price, isMember) {\n  if (isMember) return price * 0.9;\n  return Math.max(0, price - 5);\n}",
		"performance": "// Before\n" +
			"// O(n^2) nested loops searching for duplicates\n\n" +
			"// After\n" +
			"function findDuplicates(items) {\n  const seen = new Set();\n  const dups = new Set();\n  for (const item of items) {\n    (seen.has(item) ? dups : seen).add(item);\n  }\n  return [...dups];\n}",
	},
}
