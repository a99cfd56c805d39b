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

import "sync"

// Module is one parsed source file: its absolute path, dotted module name,
// root AST node, and resolved layer. A Module owns its AST; it is created
// on first parse and discarded when the owning Cache is cleared.
type Module struct {
	AbsPath                 string
	DottedName              string
	Root                    *Node
	Layer                   string
	LayerResolved           bool
	AbsoluteImportActivated bool
	Source                  []byte
}

// Cache is the process-local, astroid-like parse cache: parse-on-demand,
// explicitly invalidated between fix passes, never touched by rules except
// through the read path. It is the single owner of every Module it holds.
type Cache struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{modules: make(map[string]*Module)}
}

// Get returns the cached Module for absPath, if present.
func (c *Cache) Get(absPath string) (*Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[absPath]
	return m, ok
}

// Put stores m, keyed by its AbsPath, overwriting any previous entry.
func (c *Cache) Put(m *Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules[m.AbsPath] = m
}

// Invalidate drops the cached entry for absPath, if any.
func (c *Cache) Invalidate(absPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.modules, absPath)
}

// Clear discards every cached Module. Called between fix passes 2 and 3 so
// later passes observe only on-disk state.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules = make(map[string]*Module)
}

// Len reports how many modules are currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.modules)
}
