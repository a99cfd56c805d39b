// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package astmodel

// Tree-sitter-python node type constants used by pythonWalker to identify
// grammar productions. Kept as unexported strings rather than an imported
// enum so the walker reads like the grammar it targets.
//
// Reference: https://github.com/tree-sitter/tree-sitter-python/blob/master/src/grammar.json
const (
	pyModule                   = "module"
	pyImportStatement          = "import_statement"
	pyImportFromStatement      = "import_from_statement"
	pyDottedName                = "dotted_name"
	pyAliasedImport            = "aliased_import"
	pyWildcardImport           = "wildcard_import"
	pyFunctionDefinition       = "function_definition"
	pyAsyncFunctionDefinition  = "async_function_definition" // wraps function_definition in some grammar versions
	pyParameters               = "parameters"
	pyTypedParameter           = "typed_parameter"
	pyDefaultParameter         = "default_parameter"
	pyTypedDefaultParameter    = "typed_default_parameter"
	pyListSplatPattern         = "list_splat_pattern"
	pyDictionarySplatPattern   = "dictionary_splat_pattern"
	pyClassDefinition          = "class_definition"
	pyArgumentList             = "argument_list"
	pyBlock                    = "block"
	pyDecoratedDefinition      = "decorated_definition"
	pyDecorator                = "decorator"
	pyExpressionStatement      = "expression_statement"
	pyAssignment               = "assignment"
	pyAugmentedAssignment      = "augmented_assignment"
	pyType                     = "type"
	pyIdentifier               = "identifier"
	pyAttribute                = "attribute"
	pyString                   = "string"
	pyComment                  = "comment"
	pyCall                     = "call"
	pyKeywordArgument          = "keyword_argument"
	pyIfStatement              = "if_statement"
	pyElifClause               = "elif_clause"
	pyElseClause               = "else_clause"
	pyForStatement             = "for_statement"
	pyWhileStatement           = "while_statement"
	pyTryStatement             = "try_statement"
	pyExceptClause             = "except_clause"
	pyFinallyClause            = "finally_clause"
	pyWithStatement            = "with_statement"
	pyRaiseStatement           = "raise_statement"
	pyAssertStatement          = "assert_statement"
	pyPassStatement            = "pass_statement"
	pyBreakStatement           = "break_statement"
	pyContinueStatement        = "continue_statement"
	pyReturnStatement          = "return_statement"
	pyGlobalStatement          = "global_statement"
	pyNonlocalStatement        = "nonlocal_statement"
	pyDeleteStatement          = "delete_statement"
	pyLambda                   = "lambda"
	pyConditionalExpression    = "conditional_expression"
	pyComparisonOperator       = "comparison_operator"
	pyBooleanOperator          = "boolean_operator"
	pyUnaryOperator            = "unary_operator"
	pyBinaryOperator           = "binary_operator"
	pyNotOperator              = "not_operator"
	pyDictionary               = "dictionary"
	pyList                     = "list"
	pySet                      = "set"
	pyTuple                    = "tuple"
	pyListComprehension        = "list_comprehension"
	pySetComprehension         = "set_comprehension"
	pyDictionaryComprehension = "dictionary_comprehension"
	pyGeneratorExpression      = "generator_expression"
	pyYield                    = "yield"
	pyAwait                    = "await"
	pyListSplat                = "list_splat"
	pyDictionarySplat          = "dictionary_splat"
	pySubscript                = "subscript"
	pySlice                    = "slice"
	pyNamedExpression          = "named_expression"
	pyMatchStatement           = "match_statement"
	pyCaseClause               = "case_clause"
	pyInteger                  = "integer"
	pyFloat                    = "float"
	pyTrue                     = "true"
	pyFalse                    = "false"
	pyNone                     = "none"
)
