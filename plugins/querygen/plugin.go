// Package querygen はコンパイル済みの選択セットから、カスタム UnmarshalJSON メソッドを持つ
// Go の型を生成する。
//
// このパッケージは codegen.CompiledUnit（go ホストでコンパイルしたもの）を Go のソースに
// 変換するレンダラを提供する。モデルごとに型定義、UnmarshalJSON メソッド、getter メソッドを
// 生成し、UnmarshalJSON は以下の機能を処理する:
//   - Fragment spreads (Fragments コンテナ。親の型の真の上位型でない fragment は __typename でゲートする)
//   - Inline fragments (__typename に基づく型条件付きフィールド)
//   - ネストしたフィールド構造
//
// オペレーションごとに、送信用のドキュメント定数と変数の構造体、そのコンストラクタも生成する。
// 生成されるコードは github.com/go-json-experiment/json を使用し、jsontext.Value による
// 効率的な JSON アンマーシャリングで不要なアロケーションを回避する。
package querygen

import (
	"fmt"
	"os"

	"golang.org/x/tools/imports"

	"github.com/99designs/gqlgen/plugin"

	"github.com/gqlgo/gqlmodelgen/codegen"
	"github.com/gqlgo/gqlmodelgen/config"
)

var _ plugin.Plugin = &Plugin{}

// Plugin はオペレーションのモデル型を Go のソースとして書き出す。
type Plugin struct {
	cfg  *config.Config
	unit *codegen.CompiledUnit
}

// New は新しい querygen プラグインインスタンスを作成する。
//
// パラメータ:
//   - cfg: gqlmodelgen の設定
//   - unit: go ホストでコンパイルしたオペレーションと fragment
func New(cfg *config.Config, unit *codegen.CompiledUnit) *Plugin {
	return &Plugin{
		cfg:  cfg,
		unit: unit,
	}
}

// Name はこのプラグインの名前を返す。
func (p *Plugin) Name() string {
	return "querygen"
}

// Generate はクエリ型ファイルを生成し、goimports を実行する。
func (p *Plugin) Generate() error {
	filename := p.cfg.QueryGen.Filename
	if err := RenderTemplate(filename, p.cfg.QueryGen.Package, p.unit, p.cfg.PassthroughCustomScalars); err != nil {
		return fmt.Errorf("template failed: %w", err)
	}

	formatted, err := imports.Process(filename, nil, nil)
	if err != nil {
		return fmt.Errorf("go imports: %w", err)
	}
	if err := os.WriteFile(filename, formatted, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	return nil
}
