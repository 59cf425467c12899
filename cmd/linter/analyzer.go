package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const doc = `paniclogexit checks for calls that abort the process

This analyzer reports:
1. Usage of the panic() builtin
2. Calls to log.Fatal*() or os.Exit() outside main function of main package
3. Calls to Fatal*/Panic* methods of a zap logger outside main function of main package`

const zapPkgPath = "go.uber.org/zap"

var Analyzer = &analysis.Analyzer{
	Name:     "paniclogexit",
	Doc:      doc,
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspector.Preorder(nodeFilter, func(node ast.Node) {
		callExpr := node.(*ast.CallExpr)

		if ident, ok := callExpr.Fun.(*ast.Ident); ok && ident.Name == "panic" {
			if _, isBuiltin := pass.TypesInfo.Uses[ident].(*types.Builtin); isBuiltin {
				pass.Reportf(callExpr.Pos(), "panic() should not be used in production code")
			}
			return
		}

		selExpr, ok := callExpr.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		funcName := selExpr.Sel.Name

		if pkgPath, ok := packageOf(pass, selExpr); ok {
			switch {
			case pkgPath == "log" && strings.HasPrefix(funcName, "Fatal"):
				if !isInMainFunction(pass, node) {
					pass.Reportf(callExpr.Pos(), "log.%s() should only be called from main function in main package", funcName)
				}
			case pkgPath == "os" && funcName == "Exit":
				if !isInMainFunction(pass, node) {
					pass.Reportf(callExpr.Pos(), "os.Exit() should only be called from main function in main package")
				}
			}
			return
		}

		if isZapAbort(pass, selExpr) && !isInMainFunction(pass, node) {
			pass.Reportf(callExpr.Pos(), "zap %s() should only be called from main function in main package", funcName)
		}
	})

	return nil, nil
}

// packageOf возвращает путь пакета для вызовов вида pkg.Func
func packageOf(pass *analysis.Pass, sel *ast.SelectorExpr) (string, bool) {
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return "", false
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok {
		return "", false
	}
	return pkgName.Imported().Path(), true
}

func isZapAbort(pass *analysis.Pass, sel *ast.SelectorExpr) bool {
	name := sel.Sel.Name
	if !strings.HasPrefix(name, "Fatal") && !strings.HasPrefix(name, "Panic") && name != "DPanic" {
		return false
	}

	selection, ok := pass.TypesInfo.Selections[sel]
	if !ok || selection.Kind() != types.MethodVal {
		return false
	}

	fn, ok := selection.Obj().(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}
	return fn.Pkg().Path() == zapPkgPath
}

func isInMainFunction(pass *analysis.Pass, node ast.Node) bool {
	if pass.Pkg.Name() != "main" {
		return false
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == "main" && fn.Recv == nil && fn.Body != nil {
				if node.Pos() >= fn.Body.Lbrace && node.Pos() <= fn.Body.Rbrace {
					return true
				}
			}
		}
	}
	return false
}
