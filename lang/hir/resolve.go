package hir

// Resolve walks a lowered Program and assigns a Binding to every Ident,
// distinguishing local, cell (captured), free (closed-over), module-level,
// and universal (stdlib/builtin, resolved dynamically) names. It is
// adapted from the two-phase, per-function scope-tree algorithm used by
// Starlark-family resolvers (see the teacher's lang/resolver package):
// within one block, function and class names are predeclared before any
// expression in that block is resolved (enabling forward references and
// mutual recursion); val/var/loop/catch bindings are declared sequentially
// as they're encountered.
//
// predeclared names the stdlib/host symbols available to every module
// (e.g. "print", "registerAnnotationProcessor", "Dispatchers") without a
// local declaration; anything else unresolved becomes a Universal binding,
// left for the machine's dynamic name lookup (and possible runtime
// NameError) rather than a static resolve-time failure, since imports and
// module cycles can make a name valid at call time without being locally
// declared at HIR-build time.
func Resolve(p *Program, predeclared map[string]bool) {
	r := &resolver{predeclared: predeclared}
	top := newFuncScope(nil, p)
	top.pushBlock()
	r.resolveStmts(top, p.Body)
	top.popBlock()

	// Top-level names live in the module's topLevelBindings map (§3), not
	// in a function's local slot array, so they resolve to Predeclared
	// rather than Local; nested functions referencing them need no cell
	// capture, since the map itself is the shared storage.
	for _, b := range top.locals {
		b.Scope = Predeclared
	}
}

type funcScope struct {
	parent     *funcScope
	node       Node
	locals     []*Binding
	freeVars   []*Binding
	freeByName map[string]*Binding
	blocks     []map[string]*Binding
}

func newFuncScope(parent *funcScope, node Node) *funcScope {
	return &funcScope{parent: parent, node: node, freeByName: map[string]*Binding{}}
}

func (fs *funcScope) pushBlock() { fs.blocks = append(fs.blocks, map[string]*Binding{}) }
func (fs *funcScope) popBlock()  { fs.blocks = fs.blocks[:len(fs.blocks)-1] }

func (fs *funcScope) declare(name string, decl Node) *Binding {
	b := &Binding{Name: name, Scope: Local, Index: len(fs.locals), Decl: decl}
	fs.locals = append(fs.locals, b)
	fs.blocks[len(fs.blocks)-1][name] = b
	return b
}

func (fs *funcScope) lookupLocal(name string) *Binding {
	for i := len(fs.blocks) - 1; i >= 0; i-- {
		if b, ok := fs.blocks[i][name]; ok {
			return b
		}
	}
	return nil
}

type resolver struct {
	predeclared map[string]bool
}

func (r *resolver) resolveStmts(fs *funcScope, stmts []Stmt) {
	for _, s := range stmts {
		switch d := s.(type) {
		case *FuncDecl:
			if d.Receiver == "" {
				d.Binding = fs.declare(d.Name, d)
			}
		case *ClassDecl:
			d.Binding = fs.declare(d.Name, d)
		}
	}
	for _, s := range stmts {
		r.resolveStmt(fs, s)
	}
}

func (r *resolver) resolveBlock(fs *funcScope, b *BlockStmt) {
	fs.pushBlock()
	r.resolveStmts(fs, b.Stmts)
	fs.popBlock()
}

func (r *resolver) resolveStmt(fs *funcScope, s Stmt) {
	switch s := s.(type) {
	case *ValDecl:
		r.resolveExpr(fs, s.Value)
		s.Binding = fs.declare(s.Name, s)
	case *VarDecl:
		if s.Value != nil {
			r.resolveExpr(fs, s.Value)
		}
		s.Binding = fs.declare(s.Name, s)
	case *Assign:
		r.resolveExpr(fs, s.Target)
		r.resolveExpr(fs, s.Value)
	case *DestructureStmt:
		r.resolveExpr(fs, s.Value)
		s.Bindings = make([]*Binding, len(s.Names))
		for i, n := range s.Names {
			s.Bindings[i] = fs.declare(n, s)
		}
	case *ExprStmt:
		r.resolveExpr(fs, s.X)
	case *FuncDecl:
		r.resolveFunc(fs, s)
	case *ClassDecl:
		r.resolveClass(fs, s)
	case *If:
		r.resolveExpr(fs, s.Cond)
		r.resolveBlock(fs, s.Then)
		if s.Else != nil {
			r.resolveStmt(fs, s.Else)
		}
	case *While:
		r.resolveExpr(fs, s.Cond)
		r.resolveBlock(fs, s.Body)
	case *ForIn:
		r.resolveExpr(fs, s.Iter)
		fs.pushBlock()
		s.Binding = fs.declare(s.Name, s)
		r.resolveStmts(fs, s.Body.Stmts)
		fs.popBlock()
	case *Return:
		if s.Value != nil {
			r.resolveExpr(fs, s.Value)
		}
	case *Throw:
		r.resolveExpr(fs, s.Value)
	case *Break, *Continue:
		// nothing to resolve
	case *TryStmt:
		r.resolveBlock(fs, s.Body)
		for _, c := range s.Catches {
			fs.pushBlock()
			if c.Name != "" {
				c.Binding = fs.declare(c.Name, c)
			}
			r.resolveStmts(fs, c.Body.Stmts)
			fs.popBlock()
		}
		if s.Finally != nil {
			r.resolveBlock(fs, s.Finally)
		}
	case *Import:
		if s.Spec.Kind != "wildcard" && s.Spec.Kind != "javaWildcard" {
			name := s.Spec.Alias
			if name == "" {
				name = s.Spec.Name
			}
			if name == "" {
				name = s.Spec.Path
			}
			s.Binding = fs.declare(name, s)
		}
	case *BlockStmt:
		r.resolveBlock(fs, s)
	case *LaunchStmt:
		if s.Dispatcher != nil {
			r.resolveExpr(fs, s.Dispatcher)
		}
		r.resolveBlock(fs, s.Body)
	}
}

func (r *resolver) resolveFunc(fs *funcScope, fd *FuncDecl) {
	child := newFuncScope(fs, fd)
	child.pushBlock()
	for _, p := range fd.Params {
		if p.Default != nil {
			r.resolveExpr(fs, p.Default)
		}
		p.Binding = child.declare(p.Name, p)
	}
	if fd.Body != nil {
		r.resolveStmts(child, fd.Body.Stmts)
	}
	if fd.ExprBody != nil {
		r.resolveExpr(child, fd.ExprBody)
	}
	child.popBlock()
	fd.Locals = child.locals
	fd.FreeVars = child.freeVars
}

func (r *resolver) resolveLambda(fs *funcScope, lam *LambdaExpr) {
	child := newFuncScope(fs, lam)
	child.pushBlock()
	for _, p := range lam.Params {
		if p.Default != nil {
			r.resolveExpr(fs, p.Default)
		}
		p.Binding = child.declare(p.Name, p)
	}
	r.resolveStmts(child, lam.Body.Stmts)
	child.popBlock()
	lam.Locals = child.locals
	lam.FreeVars = child.freeVars
}

// resolveClass resolves the primary constructor (param defaults, superclass
// arguments, field initializers, bare init expressions) in a scope private
// to construction, then resolves each method against the class's *lexically
// enclosing* scope — not the constructor scope. Methods reach fields and
// siblings through the receiver at runtime (internal/class's dynamic member
// lookup), not through lexical capture, matching how the class model
// actually dispatches `this`-implicit names (see internal/class).
func (r *resolver) resolveClass(fs *funcScope, cd *ClassDecl) {
	ctor := newFuncScope(fs, cd)
	ctor.pushBlock()
	for _, p := range cd.CtorParams {
		if p.Default != nil {
			r.resolveExpr(ctor, p.Default)
		}
		p.Binding = ctor.declare(p.Name, p)
	}
	for i := range cd.SuperArgs {
		r.resolveExpr(ctor, cd.SuperArgs[i].Value)
	}
	for _, f := range cd.Fields {
		if f.Value != nil {
			r.resolveExpr(ctor, f.Value)
		}
	}
	for i := range cd.Inits {
		r.resolveExpr(ctor, cd.Inits[i])
	}
	ctor.popBlock()

	for _, m := range cd.Methods {
		r.resolveFunc(fs, m)
	}
}

func (r *resolver) resolveExpr(fs *funcScope, e Expr) {
	switch e := e.(type) {
	case *Ident:
		e.Binding = r.resolveIdent(fs, e.Name)
	case *IntLit, *LongLit, *FloatLit, *CharLit, *StringLit, *BoolLit, *NullLit:
		// leaves
	case *ListLit:
		for _, el := range e.Elems {
			r.resolveExpr(fs, el)
		}
	case *MapLit:
		for _, en := range e.Entries {
			r.resolveExpr(fs, en.Key)
			r.resolveExpr(fs, en.Value)
		}
	case *SetLit:
		for _, el := range e.Elems {
			r.resolveExpr(fs, el)
		}
	case *PairExpr:
		r.resolveExpr(fs, e.First)
		r.resolveExpr(fs, e.Second)
	case *RangeExpr:
		r.resolveExpr(fs, e.Start)
		r.resolveExpr(fs, e.End)
		if e.Step != nil {
			r.resolveExpr(fs, e.Step)
		}
	case *SpreadExpr:
		r.resolveExpr(fs, e.X)
	case *UnaryExpr:
		r.resolveExpr(fs, e.X)
	case *BinaryExpr:
		r.resolveExpr(fs, e.X)
		r.resolveExpr(fs, e.Y)
	case *CallExpr:
		r.resolveExpr(fs, e.Fun)
		for _, a := range e.Args {
			r.resolveExpr(fs, a.Value)
		}
	case *IndexExpr:
		r.resolveExpr(fs, e.X)
		r.resolveExpr(fs, e.Index)
	case *SelectorExpr:
		r.resolveExpr(fs, e.X)
	case *LambdaExpr:
		r.resolveLambda(fs, e)
	case *IsExpr:
		r.resolveExpr(fs, e.X)
	case *AsExpr:
		r.resolveExpr(fs, e.X)
	case *MethodRefExpr:
		r.resolveExpr(fs, e.X)
	case *AsyncExpr:
		if e.Dispatcher != nil {
			r.resolveExpr(fs, e.Dispatcher)
		}
		r.resolveBlock(fs, e.Body)
	case *AwaitExpr:
		r.resolveExpr(fs, e.X)
	case *ScopeExpr:
		if e.Dispatcher != nil {
			r.resolveExpr(fs, e.Dispatcher)
		}
		fs.pushBlock()
		if e.Param != "" {
			e.Binding = fs.declare(e.Param, e)
		}
		r.resolveStmts(fs, e.Body.Stmts)
		fs.popBlock()
	case *LetExpr:
		r.resolveExpr(fs, e.Value)
		fs.pushBlock()
		e.Binding = fs.declare(e.Name, e)
		r.resolveExpr(fs, e.Body)
		fs.popBlock()
	case *IfExpr:
		r.resolveExpr(fs, e.Cond)
		r.resolveExpr(fs, e.Then)
		if e.Else != nil {
			r.resolveExpr(fs, e.Else)
		}
	case *GuardReturnExpr:
		r.resolveExpr(fs, e.X)
	}
}

// resolveIdent finds name's Binding, walking outward through enclosing
// function scopes and promoting a found Local to Cell, flattening the
// capture into a Free binding at every intervening function level
// (standard upvalue flattening).
func (r *resolver) resolveIdent(fs *funcScope, name string) *Binding {
	if b := fs.lookupLocal(name); b != nil {
		return b
	}
	cur := fs.parent
	for cur != nil {
		if b := cur.lookupLocal(name); b != nil {
			if cur.parent == nil {
				return b // module-level: shared map storage, no cell needed
			}
			b.Scope = Cell
			return r.chainFree(fs, cur, name, b)
		}
		cur = cur.parent
	}
	if r.predeclared[name] {
		return &Binding{Name: name, Scope: Predeclared}
	}
	return &Binding{Name: name, Scope: Universal}
}

// chainFree creates (or reuses) a Free binding at every function level from
// defScope's immediate child down to fs, each aliasing the binding one
// level up via From.
func (r *resolver) chainFree(fs, defScope *funcScope, name string, cellBinding *Binding) *Binding {
	var levels []*funcScope
	for s := fs; s != defScope; s = s.parent {
		levels = append(levels, s)
	}
	cur := cellBinding
	for i := len(levels) - 1; i >= 0; i-- {
		lvl := levels[i]
		if existing, ok := lvl.freeByName[name]; ok {
			cur = existing
			continue
		}
		fb := &Binding{Name: name, Scope: Free, Index: len(lvl.freeVars), From: cur}
		lvl.freeVars = append(lvl.freeVars, fb)
		lvl.freeByName[name] = fb
		cur = fb
	}
	return cur
}
